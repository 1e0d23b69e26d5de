package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/distrifone/tracking-backend/internal/shared"
)

// Resolver returns the richest obtainable cart snapshot for one session. It
// tries the relational row's cart blob first and falls back to the cart file
// when that yields zero items, tolerating malformed data in either source.
type Resolver struct {
	store     *Store
	cartFiles *CartFileStore
	logger    *slog.Logger
}

func NewResolver(store *Store, cartFiles *CartFileStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:     store,
		cartFiles: cartFiles,
		logger:    logger,
	}
}

// Resolve stops at the first source that yields at least one item. When
// neither does it returns shared.ErrNotFound: an empty cart is never
// persisted as a retrievable cart record, so "exists but empty" cannot occur
// here. Malformed JSON counts as zero items from that source, never as a
// failure. An I/O error from the relational store is fatal.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*CartSnapshot, error) {
	rec, err := r.store.GetBySession(ctx, sessionID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("read visit row %s: %w", sessionID, err)
	}

	if rec != nil && rec.CartData != nil {
		if snap := r.fromRecord(rec); snap != nil {
			return snap, nil
		}
	}

	if fileRec, ok := r.cartFiles.Get(sessionID); ok && len(fileRec.CartData.Items) > 0 {
		return r.fromFileRecord(fileRec), nil
	}

	return nil, shared.ErrNotFound
}

func (r *Resolver) fromRecord(rec *VisitRecord) *CartSnapshot {
	var cart CartData
	if err := json.Unmarshal([]byte(*rec.CartData), &cart); err != nil {
		r.logger.Warn("cart data corrupt on visit row", "session_id", rec.SessionID, "error", err)
		return nil
	}
	if len(cart.Items) == 0 {
		return nil
	}

	total := 0.0
	switch {
	case cart.Total != nil:
		total = *cart.Total
	case rec.CartValue != nil:
		total = *rec.CartValue
	default:
		for _, item := range cart.Items {
			total += float64(item.Quantity) * item.UnitPrice
		}
	}

	return &CartSnapshot{
		SessionID: rec.SessionID,
		Whatsapp:  rec.Whatsapp,
		Items:     recomputeLineTotals(cart.Items),
		Total:     total,
		Analytics: CartAnalytics{
			TimeOnSiteSeconds: durationSeconds(rec.StartTime, rec.LastActivity),
			CategoriesVisited: rec.CategoriesVisited,
			SearchTerms:       rec.SearchTerms,
			ProductsViewed:    rec.ProductsViewed,
		},
	}
}

func (r *Resolver) fromFileRecord(fileRec *CartFileRecord) *CartSnapshot {
	return &CartSnapshot{
		SessionID: fileRec.SessionID,
		Whatsapp:  fileRec.Whatsapp,
		Items:     recomputeLineTotals(fileRec.CartData.Items),
		Total:     cartTotal(fileRec.CartData),
		Analytics: CartAnalytics{
			// the file stores time on site in milliseconds
			TimeOnSiteSeconds: fileRec.AnalyticsData.TimeOnSiteMs / 1000,
			CategoriesVisited: fileRec.AnalyticsData.CategoriesVisited,
			SearchTerms:       fileRec.AnalyticsData.SearchTerms,
			ProductsViewed:    fileRec.AnalyticsData.ProductsViewed,
		},
	}
}

// recomputeLineTotals rebuilds every per-item total from quantity and unit
// price, regardless of what was stored.
func recomputeLineTotals(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		item.TotalPrice = float64(item.Quantity) * item.UnitPrice
		out[i] = item
	}
	return out
}
