package tracking

import (
	"context"
	"errors"

	"github.com/distrifone/tracking-backend/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the authoritative relational store for visit rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&VisitRecord{})
}

// Upsert writes the session row in a single statement so a concurrent reader
// never observes a partial write. StartTime and CreatedAt are set only on
// create and never overwritten on update.
func (s *Store) Upsert(ctx context.Context, rec *VisitRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"whatsapp",
			"last_activity",
			"search_terms",
			"categories_visited",
			"products_viewed",
			"has_cart",
			"cart_value",
			"cart_item_count",
			"cart_data",
			"status",
			"whatsapp_collected_at",
			"updated_at",
		}),
	}).Create(rec).Error
}

func (s *Store) GetBySession(ctx context.Context, sessionID string) (*VisitRecord, error) {
	var rec VisitRecord
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &rec, err
}

func (s *Store) ListAll(ctx context.Context) ([]VisitRecord, error) {
	var recs []VisitRecord
	err := s.db.WithContext(ctx).Find(&recs).Error
	return recs, err
}
