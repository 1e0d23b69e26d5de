package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mergeFixture struct {
	store         *Store
	trackingPath  string
	cartFiles     *CartFileStore
	trackingFiles *TrackingFileStore
	merger        *Merger
}

func newMergeFixture(t *testing.T) *mergeFixture {
	dir := t.TempDir()
	store := setupTestStore(t)
	trackingPath := filepath.Join(dir, "tracking.json")
	trackingFiles := NewTrackingFileStore(trackingPath, discardLogger())
	cartFiles := NewCartFileStore(filepath.Join(dir, "carts.json"), discardLogger())
	return &mergeFixture{
		store:         store,
		trackingPath:  trackingPath,
		cartFiles:     cartFiles,
		trackingFiles: trackingFiles,
		merger:        NewMerger(store, trackingFiles, cartFiles, discardLogger()),
	}
}

func (f *mergeFixture) seedRow(t *testing.T, sessionID, whatsapp string, start time.Time) {
	t.Helper()
	err := f.store.Upsert(context.Background(), &VisitRecord{
		SessionID:    sessionID,
		Whatsapp:     whatsapp,
		StartTime:    start,
		LastActivity: start.Add(time.Minute),
		Status:       string(StatusActive),
	})
	if err != nil {
		t.Fatalf("seed row %s: %v", sessionID, err)
	}
}

func (f *mergeFixture) seedTrackingFile(t *testing.T, records []TrackingFileRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.trackingPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMerger_DedupPriority(t *testing.T) {
	f := newMergeFixture(t)
	now := time.Now().UTC()

	// the same session in all three sources with distinguishable numbers
	f.seedRow(t, "sess_dup", "+5511900000001", now.Add(-time.Hour))
	f.seedTrackingFile(t, []TrackingFileRecord{
		{SessionID: "sess_dup", Whatsapp: "+5511900000002", StartTime: now, LastActivity: now},
		{SessionID: "sess_file_only", Whatsapp: "+5511900000003", StartTime: now, LastActivity: now},
	})
	if err := f.cartFiles.Upsert(CartFileRecord{
		SessionID:    "sess_dup",
		Whatsapp:     "+5511900000004",
		CartData:     CartData{Items: []CartItem{{Name: "Capa", Quantity: 1, UnitPrice: 10}}},
		LastActivity: now,
		CreatedAt:    now,
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.cartFiles.Upsert(CartFileRecord{
		SessionID:    "sess_file_only",
		Whatsapp:     "+5511900000005",
		CartData:     CartData{Items: []CartItem{{Name: "Capa", Quantity: 1, UnitPrice: 10}}},
		LastActivity: now,
		CreatedAt:    now,
	}); err != nil {
		t.Fatal(err)
	}

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Visits) != 2 {
		t.Fatalf("expected 2 deduplicated visits, got %d", len(list.Visits))
	}

	byID := make(map[string]Visit, len(list.Visits))
	for _, v := range list.Visits {
		byID[v.SessionID] = v
	}

	// relational wins over both files, no blending
	if got := byID["sess_dup"].Whatsapp; got != "+5511900000001" {
		t.Errorf("relational representation must win, got whatsapp %q", got)
	}
	if byID["sess_dup"].HasCart {
		t.Error("cart file fields must not leak into the relational representation")
	}
	// tracking file wins over cart file
	if got := byID["sess_file_only"].Whatsapp; got != "+5511900000003" {
		t.Errorf("tracking file representation must win over cart file, got whatsapp %q", got)
	}
}

func TestMerger_SortNewestFirst(t *testing.T) {
	f := newMergeFixture(t)
	base := time.Now().UTC().Add(-3 * time.Hour)

	f.seedRow(t, "sess_old", "", base)
	f.seedRow(t, "sess_mid", "", base.Add(time.Hour))
	f.seedRow(t, "sess_new", "", base.Add(2*time.Hour))

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{list.Visits[0].SessionID, list.Visits[1].SessionID, list.Visits[2].SessionID}
	want := []string{"sess_new", "sess_mid", "sess_old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMerger_Pagination(t *testing.T) {
	f := newMergeFixture(t)
	base := time.Now().UTC().Add(-100 * time.Hour)
	for i := 0; i < 75; i++ {
		f.seedRow(t, fmt.Sprintf("sess_%03d", i), "", base.Add(time.Duration(i)*time.Minute))
	}

	cases := []struct {
		page    int
		visits  int
		hasNext bool
		hasPrev bool
	}{
		{page: 1, visits: 30, hasNext: true, hasPrev: false},
		{page: 2, visits: 30, hasNext: true, hasPrev: true},
		{page: 3, visits: 15, hasNext: false, hasPrev: true},
		{page: 4, visits: 0, hasNext: false, hasPrev: true},
	}
	for _, tc := range cases {
		list, err := f.merger.List(context.Background(), ListParams{Page: tc.page})
		if err != nil {
			t.Fatalf("page %d: %v", tc.page, err)
		}
		if len(list.Visits) != tc.visits {
			t.Errorf("page %d: expected %d visits, got %d", tc.page, tc.visits, len(list.Visits))
		}
		p := list.Pagination
		if p.Total != 75 || p.TotalPages != 3 || p.Limit != PageSize {
			t.Errorf("page %d: unexpected pagination %+v", tc.page, p)
		}
		if p.HasNext != tc.hasNext || p.HasPrev != tc.hasPrev {
			t.Errorf("page %d: expected hasNext=%v hasPrev=%v, got %+v", tc.page, tc.hasNext, tc.hasPrev, p)
		}
	}
}

func TestMerger_EmptyResult(t *testing.T) {
	f := newMergeFixture(t)

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Visits) != 0 {
		t.Errorf("expected no visits, got %d", len(list.Visits))
	}
	p := list.Pagination
	if p.Total != 0 || p.TotalPages != 0 || p.HasNext || p.HasPrev {
		t.Errorf("unexpected pagination for empty set: %+v", p)
	}
}

func TestMerger_Filters(t *testing.T) {
	f := newMergeFixture(t)
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 23, 30, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)

	f.seedRow(t, "sess_day1", "+55 (11) 91234-5678", day1)
	f.seedRow(t, "sess_day2", "", day2)
	f.seedRow(t, "sess_day3", "11987654321", day3)

	t.Run("date range end of day inclusive", func(t *testing.T) {
		start := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
		list, err := f.merger.List(context.Background(), ListParams{StartDate: &start, EndDate: &end, Page: 1})
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Visits) != 1 || list.Visits[0].SessionID != "sess_day2" {
			t.Errorf("expected only sess_day2 in range, got %+v", list.Visits)
		}
	})

	t.Run("phone substring normalized", func(t *testing.T) {
		list, err := f.merger.List(context.Background(), ListParams{Phone: "(11) 91234", Page: 1})
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Visits) != 1 || list.Visits[0].SessionID != "sess_day1" {
			t.Errorf("expected punctuation-insensitive match on sess_day1, got %+v", list.Visits)
		}
	})

	t.Run("has contact", func(t *testing.T) {
		list, err := f.merger.List(context.Background(), ListParams{HasContact: true, Page: 1})
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Visits) != 2 {
			t.Errorf("expected 2 visits with a phone, got %d", len(list.Visits))
		}
		for _, v := range list.Visits {
			if v.SessionID == "sess_day2" {
				t.Error("sess_day2 has no phone and must be filtered out")
			}
		}
	})
}

func TestMerger_StatsOverFilteredSet(t *testing.T) {
	f := newMergeFixture(t)
	now := time.Now().UTC()

	// active row with a phone
	f.seedRow(t, "sess_stats_a", "+5511912345678", now.Add(-10*time.Minute))
	// cart file record gone idle long enough to derive abandoned
	if err := f.cartFiles.Upsert(CartFileRecord{
		SessionID:    "sess_stats_b",
		CartData:     CartData{Items: []CartItem{{Name: "Capa", Quantity: 2, UnitPrice: 10}}},
		LastActivity: now.Add(-2 * time.Hour),
		CreatedAt:    now.Add(-3 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}
	// contacted cart record derives completed
	if err := f.cartFiles.Upsert(CartFileRecord{
		SessionID:    "sess_stats_c",
		CartData:     CartData{Items: []CartItem{{Name: "Capa", Quantity: 1, UnitPrice: 5}}},
		LastActivity: now.Add(-time.Hour),
		CreatedAt:    now.Add(-2 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}
	markCartRecord(t, f.cartFiles, "sess_stats_c", true, false)

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	s := list.Stats
	if s.Total != 3 || s.Active != 1 || s.Abandoned != 1 || s.Completed != 1 {
		t.Errorf("unexpected status tallies: %+v", s)
	}
	if s.WithCart != 2 {
		t.Errorf("expected 2 visits with a cart, got %d", s.WithCart)
	}
	if s.WithPhone != 1 {
		t.Errorf("expected 1 visit with a phone, got %d", s.WithPhone)
	}
}

func TestMerger_TrackingRecordWithBrokenCartClaim(t *testing.T) {
	f := newMergeFixture(t)
	now := time.Now().UTC()
	value := 50.0
	negative := -1.0
	count := 2

	f.seedTrackingFile(t, []TrackingFileRecord{
		{SessionID: "sess_no_summary", StartTime: now, LastActivity: now, HasCart: true},
		{SessionID: "sess_no_count", StartTime: now, LastActivity: now, HasCart: true, CartValue: &value},
		{SessionID: "sess_neg_value", StartTime: now, LastActivity: now, HasCart: true, CartValue: &negative, CartItemCount: &count},
		{SessionID: "sess_intact", StartTime: now, LastActivity: now, HasCart: true, CartValue: &value, CartItemCount: &count},
	})

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatal(err)
	}

	byID := make(map[string]Visit, len(list.Visits))
	for _, v := range list.Visits {
		byID[v.SessionID] = v
	}

	for _, id := range []string{"sess_no_summary", "sess_no_count", "sess_neg_value"} {
		v := byID[id]
		if v.HasCart || v.CartValue != nil || v.CartItemCount != nil {
			t.Errorf("%s: a cart claim without valid summary fields must be dropped, got %+v", id, v)
		}
	}

	intact := byID["sess_intact"]
	if !intact.HasCart || intact.CartValue == nil || *intact.CartValue != 50 || intact.CartItemCount == nil {
		t.Errorf("a complete cart claim must pass through unchanged, got %+v", intact)
	}

	if list.Stats.WithCart != 1 {
		t.Errorf("expected 1 visit with a cart after coercion, got %d", list.Stats.WithCart)
	}
}

func TestMerger_CartRecordStoredTotalWins(t *testing.T) {
	f := newMergeFixture(t)
	now := time.Now().UTC()

	stored := 99.9
	if err := f.cartFiles.Upsert(CartFileRecord{
		SessionID: "sess_total",
		CartData: CartData{
			Items: []CartItem{{Name: "Capa", Quantity: 2, UnitPrice: 10}},
			Total: &stored,
		},
		LastActivity: now,
		CreatedAt:    now,
	}); err != nil {
		t.Fatal(err)
	}

	list, err := f.merger.List(context.Background(), ListParams{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	v := list.Visits[0]
	if v.CartValue == nil || *v.CartValue != 99.9 {
		t.Errorf("stored total must win over recomputation, got %v", v.CartValue)
	}
	if v.CartItemCount == nil || *v.CartItemCount != 2 {
		t.Errorf("expected item count 2, got %v", v.CartItemCount)
	}
}

// markCartRecord flips the notification flags on a stored cart file record,
// the way the notification path does.
func markCartRecord(t *testing.T, store *CartFileStore, sessionID string, contacted, webhookSent bool) {
	t.Helper()
	records := store.ReadAll()
	for i := range records {
		if records[i].SessionID == sessionID {
			records[i].Contacted = contacted
			records[i].WebhookSent = webhookSent
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), data, 0o644); err != nil {
		t.Fatal(err)
	}
}
