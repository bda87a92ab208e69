package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/model"
)

func seedFakeCatalog() *fakeCatalogStore {
	return &fakeCatalogStore{
		creators: []*model.Creator{
			{ID: 1, Name: "Ada", Handle: "@AdaBuilds", IsRecommended: true},
			{ID: 2, Name: "Hidden", Handle: "@hidden", IsRecommended: false},
		},
		offerings: []*model.Offering{
			{ID: 10, CreatorID: 1, Title: "Agents 101", Type: model.OfferingCourse, Pros: []string{"hands-on"}, Cons: []string{}, IsCurrentlyRecommended: true, CreatorName: "Ada"},
		},
		reviews: []*model.ContentReview{
			{ID: 100, CreatorID: 1, Title: "Tool calling", URL: "https://yt.example/1", Verdict: model.VerdictRecommended, CreatorName: "Ada"},
		},
	}
}

func newTestCatalogService(store CatalogStore, cache CatalogCache) (*CatalogService, *metrics.InMemoryRecorder) {
	rec := metrics.NewInMemory()
	return NewCatalogService(store, cache, time.Minute, rec, nil), rec
}

// ============================================================================
// Cache-aside
// ============================================================================

func TestListCreators_CacheHitSkipsStore(t *testing.T) {
	store := seedFakeCatalog()
	svc, rec := newTestCatalogService(store, newFakeCatalogCache())
	ctx := context.Background()

	first, err := svc.ListCreators(ctx)
	if err != nil {
		t.Fatalf("ListCreators failed: %v", err)
	}
	second, err := svc.ListCreators(ctx)
	if err != nil {
		t.Fatalf("ListCreators failed: %v", err)
	}

	if store.calls != 1 {
		t.Errorf("expected 1 store call, got %d", store.calls)
	}
	if len(first) != len(second) || second[0].Handle != "@AdaBuilds" {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}

	snap := rec.Snapshot()
	if snap.CatalogCacheHits != 1 || snap.CatalogCacheMisses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", snap.CatalogCacheHits, snap.CatalogCacheMisses)
	}
}

func TestCatalog_FailOpenWhenCacheDown(t *testing.T) {
	store := seedFakeCatalog()
	cache := newFakeCatalogCache()
	cache.down = true
	svc, _ := newTestCatalogService(store, cache)
	ctx := context.Background()

	offerings, err := svc.ListOfferings(ctx)
	if err != nil {
		t.Fatalf("ListOfferings should fail open, got %v", err)
	}
	if len(offerings) != 1 {
		t.Errorf("expected 1 offering, got %d", len(offerings))
	}

	if _, err := svc.GetCreatorProfile(ctx, "adabuilds"); err != nil {
		t.Fatalf("GetCreatorProfile should fail open, got %v", err)
	}
}

func TestCatalog_NoCache(t *testing.T) {
	store := seedFakeCatalog()
	svc := NewCatalogService(store, nil, time.Minute, nil, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.ListContent(context.Background()); err != nil {
			t.Fatalf("ListContent failed: %v", err)
		}
	}
	if store.calls != 2 {
		t.Errorf("expected every call to hit the store, got %d", store.calls)
	}
}

func TestCatalog_StoreErrorPropagates(t *testing.T) {
	store := seedFakeCatalog()
	store.err = errors.New("db down")
	svc, _ := newTestCatalogService(store, newFakeCatalogCache())

	if _, err := svc.ListCreators(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// ============================================================================
// Creator profile
// ============================================================================

func TestGetCreatorProfile(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"exact slug", "adabuilds", nil},
		{"mixed case with at sign", "@AdaBuilds", nil},
		{"not recommended", "hidden", ErrCreatorNotFound},
		{"unknown", "nobody", ErrCreatorNotFound},
		{"empty", "  ", ErrCreatorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestCatalogService(seedFakeCatalog(), newFakeCatalogCache())

			profile, err := svc.GetCreatorProfile(context.Background(), tt.slug)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetCreatorProfile(%q) error = %v, want %v", tt.slug, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if profile.Creator.ID != 1 {
				t.Errorf("unexpected creator: %+v", profile.Creator)
			}
			if len(profile.Offerings) != 1 || len(profile.ContentReviews) != 1 {
				t.Errorf("expected 1 offering and 1 review, got %d/%d", len(profile.Offerings), len(profile.ContentReviews))
			}
		})
	}
}

func TestGetCreatorProfile_NegativeCache(t *testing.T) {
	store := seedFakeCatalog()
	cache := newFakeCatalogCache()
	svc, _ := newTestCatalogService(store, cache)
	ctx := context.Background()

	if _, err := svc.GetCreatorProfile(ctx, "nobody"); !errors.Is(err, ErrCreatorNotFound) {
		t.Fatalf("expected ErrCreatorNotFound, got %v", err)
	}
	calls := store.calls

	if _, err := svc.GetCreatorProfile(ctx, "nobody"); !errors.Is(err, ErrCreatorNotFound) {
		t.Fatalf("expected ErrCreatorNotFound, got %v", err)
	}
	if store.calls != calls {
		t.Error("negatively cached slug should not reach the store")
	}
}

// ============================================================================
// Content
// ============================================================================

func TestGetContent(t *testing.T) {
	store := seedFakeCatalog()
	cache := newFakeCatalogCache()
	svc, _ := newTestCatalogService(store, cache)
	ctx := context.Background()

	review, err := svc.GetContent(ctx, 100)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if review.Title != "Tool calling" || review.CreatorName != "Ada" {
		t.Errorf("unexpected review: %+v", review)
	}

	if _, err := svc.GetContent(ctx, 999); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
	if !cache.negative["content:999"] {
		t.Error("missing id should be negatively cached")
	}
}
