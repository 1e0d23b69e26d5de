package tracking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/distrifone/tracking-backend/internal/shared"
)

func newTestResolver(t *testing.T) (*Resolver, *Store, *CartFileStore) {
	store := setupTestStore(t)
	cartFiles := NewCartFileStore(filepath.Join(t.TempDir(), "carts.json"), discardLogger())
	return NewResolver(store, cartFiles, discardLogger()), store, cartFiles
}

func seedCartRow(t *testing.T, store *Store, sessionID, cartJSON string, cartValue *float64) {
	t.Helper()
	now := time.Now().UTC()
	err := store.Upsert(context.Background(), &VisitRecord{
		SessionID:    sessionID,
		Whatsapp:     "+5511912345678",
		StartTime:    now.Add(-90 * time.Second),
		LastActivity: now,
		HasCart:      true,
		CartData:     &cartJSON,
		CartValue:    cartValue,
	})
	if err != nil {
		t.Fatalf("seed row: %v", err)
	}
}

func TestResolver_FromRelationalRow(t *testing.T) {
	resolver, store, _ := newTestResolver(t)
	seedCartRow(t, store, "sess_row", `{"items":[{"name":"Pelicula 3D","quantity":2,"unitPrice":4.5,"totalPrice":1}],"total":9}`, nil)

	snap, err := resolver.Resolve(context.Background(), "sess_row")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if snap.Total != 9 {
		t.Errorf("expected explicit total 9, got %v", snap.Total)
	}
	// stored line totals are never trusted
	if got := snap.Items[0].TotalPrice; got != 9 {
		t.Errorf("expected recomputed line total 9, got %v", got)
	}
	if snap.Analytics.TimeOnSiteSeconds != 90 {
		t.Errorf("expected 90s on site, got %d", snap.Analytics.TimeOnSiteSeconds)
	}
}

func TestResolver_TotalFallbackOrder(t *testing.T) {
	resolver, store, _ := newTestResolver(t)

	rowValue := 42.0
	seedCartRow(t, store, "sess_rowvalue", `{"items":[{"name":"Capa","quantity":1,"unitPrice":10}]}`, &rowValue)
	seedCartRow(t, store, "sess_summed", `{"items":[{"name":"Capa","quantity":3,"unitPrice":10}]}`, nil)

	snap, err := resolver.Resolve(context.Background(), "sess_rowvalue")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Total != 42 {
		t.Errorf("row cart value must back a blob without total, got %v", snap.Total)
	}

	snap, err = resolver.Resolve(context.Background(), "sess_summed")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Total != 30 {
		t.Errorf("expected summed total 30, got %v", snap.Total)
	}
}

func TestResolver_CorruptRowFallsBackToFile(t *testing.T) {
	resolver, store, cartFiles := newTestResolver(t)
	seedCartRow(t, store, "sess_corrupt", `{not json`, nil)

	now := time.Now().UTC()
	if err := cartFiles.Upsert(CartFileRecord{
		SessionID: "sess_corrupt",
		Whatsapp:  "+5511912345678",
		CartData:  CartData{Items: []CartItem{{Name: "Capa", Quantity: 2, UnitPrice: 10}}},
		AnalyticsData: CartFileAnalytics{
			TimeOnSiteMs: 125000,
			SearchTerms:  []string{"capa"},
		},
		LastActivity: now,
		CreatedAt:    now,
	}); err != nil {
		t.Fatal(err)
	}

	snap, err := resolver.Resolve(context.Background(), "sess_corrupt")
	if err != nil {
		t.Fatalf("expected fallback to the file record: %v", err)
	}
	if snap.Total != 20 {
		t.Errorf("expected total 20 from the file record, got %v", snap.Total)
	}
	// the file stores milliseconds, the snapshot reports seconds
	if snap.Analytics.TimeOnSiteSeconds != 125 {
		t.Errorf("expected 125s on site, got %d", snap.Analytics.TimeOnSiteSeconds)
	}
}

func TestResolver_EmptyRowCartFallsBackToFile(t *testing.T) {
	resolver, store, cartFiles := newTestResolver(t)
	seedCartRow(t, store, "sess_empty_blob", `{"items":[]}`, nil)

	now := time.Now().UTC()
	if err := cartFiles.Upsert(CartFileRecord{
		SessionID:    "sess_empty_blob",
		CartData:     CartData{Items: []CartItem{{Name: "Capa", Quantity: 1, UnitPrice: 5}}},
		LastActivity: now,
		CreatedAt:    now,
	}); err != nil {
		t.Fatal(err)
	}

	snap, err := resolver.Resolve(context.Background(), "sess_empty_blob")
	if err != nil {
		t.Fatalf("expected fallback to the file record: %v", err)
	}
	if snap.Total != 5 {
		t.Errorf("expected total 5, got %v", snap.Total)
	}
}

func TestResolver_NotFound(t *testing.T) {
	resolver, store, cartFiles := newTestResolver(t)

	t.Run("unknown session", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "sess_unknown")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("both sources empty", func(t *testing.T) {
		seedCartRow(t, store, "sess_all_empty", `{"items":[]}`, nil)
		if err := cartFiles.Upsert(CartFileRecord{
			SessionID: "sess_all_empty",
			CartData:  CartData{Items: []CartItem{}},
		}); err != nil {
			t.Fatal(err)
		}

		_, err := resolver.Resolve(context.Background(), "sess_all_empty")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found for empty carts everywhere, got %v", err)
		}
	})
}
