package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// PageSize is the fixed page size of the admin listing.
const PageSize = 30

type ListParams struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Phone      string
	HasContact bool
	Page       int
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Stats aggregates the filtered, pre-pagination visit set.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Abandoned int `json:"abandoned"`
	Completed int `json:"completed"`
	WithCart  int `json:"withCart"`
	WithPhone int `json:"withPhone"`
}

type VisitList struct {
	Visits     []Visit
	Pagination Pagination
	Stats      Stats
}

// Merger produces one deduplicated visit list out of the relational store and
// the two flat files. The relational store is the primary source and its
// failure is fatal; either flat file degrades silently to empty.
type Merger struct {
	store         *Store
	trackingFiles *TrackingFileStore
	cartFiles     *CartFileStore
	logger        *slog.Logger
}

func NewMerger(store *Store, trackingFiles *TrackingFileStore, cartFiles *CartFileStore, logger *slog.Logger) *Merger {
	return &Merger{
		store:         store,
		trackingFiles: trackingFiles,
		cartFiles:     cartFiles,
		logger:        logger,
	}
}

// List reads all three sources, converts each raw shape into a canonical
// Visit, deduplicates by session id with strict priority
// relational > tracking file > cart file, then filters, sorts and paginates.
// A session present in a higher-priority source entirely suppresses the
// lower-priority representations; fields are never blended across sources.
func (m *Merger) List(ctx context.Context, params ListParams) (*VisitList, error) {
	recs, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read visit rows: %w", err)
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(recs))
	visits := make([]Visit, 0, len(recs))

	for i := range recs {
		visits = append(visits, visitFromRecord(&recs[i], now))
		seen[recs[i].SessionID] = struct{}{}
	}
	for _, fr := range m.trackingFiles.ReadAll() {
		if _, ok := seen[fr.SessionID]; ok {
			continue
		}
		visits = append(visits, visitFromTrackingRecord(fr, now))
		seen[fr.SessionID] = struct{}{}
	}
	for _, cr := range m.cartFiles.ReadAll() {
		if _, ok := seen[cr.SessionID]; ok {
			continue
		}
		visits = append(visits, visitFromCartRecord(cr, now))
		seen[cr.SessionID] = struct{}{}
	}

	filtered := filterVisits(visits, params)

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartTime.After(filtered[j].StartTime)
	})

	stats := Stats{Total: len(filtered)}
	for _, v := range filtered {
		switch v.Status {
		case StatusActive:
			stats.Active++
		case StatusAbandoned:
			stats.Abandoned++
		case StatusCompleted:
			stats.Completed++
		}
		if v.HasCart {
			stats.WithCart++
		}
		if normalizePhone(v.Whatsapp) != "" {
			stats.WithPhone++
		}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	return &VisitList{
		Visits: filtered[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      PageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && total > 0,
		},
		Stats: stats,
	}, nil
}

// filterVisits applies the optional filters, combined with AND. The end date
// bound is end-of-day inclusive; phone matching compares digit-normalized
// substrings.
func filterVisits(visits []Visit, params ListParams) []Visit {
	phone := normalizePhone(params.Phone)

	filtered := make([]Visit, 0, len(visits))
	for _, v := range visits {
		if params.StartDate != nil && v.StartTime.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && v.StartTime.After(endOfDay(*params.EndDate)) {
			continue
		}
		if phone != "" && !strings.Contains(normalizePhone(v.Whatsapp), phone) {
			continue
		}
		if params.HasContact && normalizePhone(v.Whatsapp) == "" {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func visitFromRecord(rec *VisitRecord, now time.Time) Visit {
	return Visit{
		SessionID:              rec.SessionID,
		Whatsapp:               rec.Whatsapp,
		WhatsappFormatted:      formatWhatsapp(rec.Whatsapp),
		StartTime:              rec.StartTime,
		LastActivity:           rec.LastActivity,
		SessionDurationSeconds: durationSeconds(rec.StartTime, rec.LastActivity),
		SearchTerms:            rec.SearchTerms,
		CategoriesVisited:      rec.CategoriesVisited,
		ProductsViewed:         rec.ProductsViewed,
		HasCart:                rec.HasCart,
		CartValue:              rec.CartValue,
		CartItemCount:          rec.CartItemCount,
		Status:                 resolveStatus(rec.Status, rec.LastActivity, now),
		WhatsappCollectedAt:    rec.WhatsappCollectedAt,
	}
}

func visitFromTrackingRecord(fr TrackingFileRecord, now time.Time) Visit {
	v := Visit{
		SessionID:              fr.SessionID,
		Whatsapp:               fr.Whatsapp,
		WhatsappFormatted:      formatWhatsapp(fr.Whatsapp),
		StartTime:              fr.StartTime,
		LastActivity:           fr.LastActivity,
		SessionDurationSeconds: durationSeconds(fr.StartTime, fr.LastActivity),
		SearchTerms:            fr.SearchTerms,
		CategoriesVisited:      fr.CategoriesVisited,
		ProductsViewed:         fr.ProductsViewed,
		HasCart:                fr.HasCart,
		CartValue:              fr.CartValue,
		CartItemCount:          fr.CartItemCount,
		Status:                 resolveStatus(fr.Status, fr.LastActivity, now),
		WhatsappCollectedAt:    fr.WhatsappCollectedAt,
	}
	// legacy records sometimes claim a cart without carrying valid summary
	// fields; drop the claim rather than surface it half filled
	if v.HasCart && (v.CartValue == nil || *v.CartValue < 0 || v.CartItemCount == nil) {
		v.HasCart = false
		v.CartValue = nil
		v.CartItemCount = nil
	}
	return v
}

func visitFromCartRecord(cr CartFileRecord, now time.Time) Visit {
	v := Visit{
		SessionID:              cr.SessionID,
		Whatsapp:               cr.Whatsapp,
		WhatsappFormatted:      formatWhatsapp(cr.Whatsapp),
		StartTime:              cr.CreatedAt,
		LastActivity:           cr.LastActivity,
		SessionDurationSeconds: durationSeconds(cr.CreatedAt, cr.LastActivity),
		SearchTerms:            cr.AnalyticsData.SearchTerms,
		CategoriesVisited:      cr.AnalyticsData.CategoriesVisited,
		ProductsViewed:         cr.AnalyticsData.ProductsViewed,
		Status:                 deriveStatus(cr.Contacted, cr.WebhookSent, cr.LastActivity, now),
	}
	if len(cr.CartData.Items) > 0 {
		v.HasCart = true
		value := cartTotal(cr.CartData)
		count := 0
		for _, item := range cr.CartData.Items {
			count += item.Quantity
		}
		v.CartValue = &value
		v.CartItemCount = &count
	}
	return v
}

// cartTotal returns the authoritative stored total when present, otherwise
// the sum of recomputed line totals.
func cartTotal(cart CartData) float64 {
	if cart.Total != nil {
		return *cart.Total
	}
	var sum float64
	for _, item := range cart.Items {
		sum += float64(item.Quantity) * item.UnitPrice
	}
	return sum
}
