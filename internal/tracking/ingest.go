package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/distrifone/tracking-backend/internal/shared"
)

// TrackRequest is one inbound tracking callback from the storefront.
type TrackRequest struct {
	SessionID           string          `json:"sessionId"`
	Whatsapp            string          `json:"whatsapp,omitempty"`
	SearchTerms         []string        `json:"searchTerms,omitempty"`
	CategoriesVisited   []CategoryVisit `json:"categoriesVisited,omitempty"`
	ProductsViewed      []ProductView   `json:"productsViewed,omitempty"`
	CartData            json.RawMessage `json:"cartData,omitempty"`
	Status              string          `json:"status,omitempty"`
	WhatsappCollectedAt *time.Time      `json:"whatsappCollectedAt,omitempty"`
}

// Ingestor turns tracking callbacks into durable upserts. The relational
// upsert is authoritative; the cart file mirror is best-effort and never
// fails the call.
type Ingestor struct {
	store     *Store
	cartFiles *CartFileStore
	logger    *slog.Logger
}

func NewIngestor(store *Store, cartFiles *CartFileStore, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		store:     store,
		cartFiles: cartFiles,
		logger:    logger,
	}
}

// IngestResult reports what one ingestion call persisted.
type IngestResult struct {
	HasCart   bool
	ItemCount int
}

// Ingest validates, normalizes and persists one snapshot. Repeating a call
// with the same payload is safe: startTime survives, lastActivity only moves
// forward. When the cart is empty the relational row keeps a tombstone with
// nulled cart fields while the file record is removed entirely.
func (ing *Ingestor) Ingest(ctx context.Context, req *TrackRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId is required", shared.ErrValidation)
	}

	var cart *CartData
	if !isAbsent(req.CartData) {
		var err error
		cart, err = NormalizeCartPayload(req.CartData)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	hasCart := cart != nil && len(cart.Items) > 0

	rec := &VisitRecord{
		SessionID:           req.SessionID,
		Whatsapp:            req.Whatsapp,
		StartTime:           now,
		LastActivity:        now,
		SearchTerms:         req.SearchTerms,
		CategoriesVisited:   req.CategoriesVisited,
		ProductsViewed:      req.ProductsViewed,
		HasCart:             hasCart,
		Status:              req.Status,
		WhatsappCollectedAt: req.WhatsappCollectedAt,
	}

	count := 0
	if hasCart {
		blob, err := json.Marshal(cart)
		if err != nil {
			return nil, fmt.Errorf("encode cart data: %w", err)
		}
		data := string(blob)
		for _, item := range cart.Items {
			count += item.Quantity
		}
		rec.CartData = &data
		rec.CartValue = cart.Total
		rec.CartItemCount = &count
	}

	if err := ing.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert visit %s: %w", req.SessionID, err)
	}

	ing.mirror(req, cart, hasCart, now)
	return &IngestResult{HasCart: hasCart, ItemCount: count}, nil
}

func (ing *Ingestor) mirror(req *TrackRequest, cart *CartData, hasCart bool, now time.Time) {
	if !hasCart {
		if err := ing.cartFiles.Delete(req.SessionID); err != nil {
			ing.logger.Warn("cart file cleanup failed", "session_id", req.SessionID, "error", err)
		}
		return
	}

	timeOnSiteMs := int64(0)
	if existing, ok := ing.cartFiles.Get(req.SessionID); ok && !existing.CreatedAt.IsZero() {
		timeOnSiteMs = now.Sub(existing.CreatedAt).Milliseconds()
	}

	err := ing.cartFiles.Upsert(CartFileRecord{
		SessionID: req.SessionID,
		Whatsapp:  req.Whatsapp,
		CartData:  *cart,
		AnalyticsData: CartFileAnalytics{
			TimeOnSiteMs:      timeOnSiteMs,
			CategoriesVisited: req.CategoriesVisited,
			SearchTerms:       req.SearchTerms,
			ProductsViewed:    req.ProductsViewed,
		},
		LastActivity: now,
		CreatedAt:    now,
	})
	if err != nil {
		ing.logger.Warn("cart file mirror failed", "session_id", req.SessionID, "error", err)
	}
}
