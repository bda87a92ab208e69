//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
)

// ============================================================================
// Catalog Repository Integration Tests
// ============================================================================

func seedCatalog(t *testing.T, ctx context.Context, repo *Repository) (creatorID, reviewID int64) {
	t.Helper()

	err := repo.Pool().QueryRow(ctx, `
		INSERT INTO creators (name, handle, youtube_url, is_recommended)
		VALUES ('Ada Builder', '@AdaBuilds', 'https://youtube.com/@adabuilds', TRUE)
		RETURNING id
	`).Scan(&creatorID)
	if err != nil {
		t.Fatalf("seed creator: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, `
		INSERT INTO creators (name, handle, is_recommended) VALUES ('Hidden', '@hidden', FALSE)
	`); err != nil {
		t.Fatalf("seed hidden creator: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, `
		INSERT INTO offerings (creator_id, title, type, tae_rating, pros, cons, is_currently_recommended)
		VALUES
			($1, 'Zeta Course', 'course', 4.1, ARRAY['hands-on'], '{}', TRUE),
			($1, 'Alpha Community', 'community', 4.8, ARRAY['active', 'friendly'], ARRAY['pricey'], TRUE),
			($1, 'Old Newsletter', 'newsletter', 5.0, '{}', '{}', FALSE)
	`, creatorID); err != nil {
		t.Fatalf("seed offerings: %v", err)
	}

	err = repo.Pool().QueryRow(ctx, `
		INSERT INTO content_reviews (creator_id, title, url, content_type, tae_verdict, last_tested_date)
		VALUES ($1, 'Build an agent', 'https://example.com/a', 'tutorial', 'recommended', NOW())
		RETURNING id
	`, creatorID).Scan(&reviewID)
	if err != nil {
		t.Fatalf("seed content review: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, `
		INSERT INTO content_reviews (creator_id, title, url, content_type, tae_verdict)
		VALUES ($1, 'Skip this', 'https://example.com/b', 'review', 'skip')
	`, creatorID); err != nil {
		t.Fatalf("seed skipped review: %v", err)
	}

	return creatorID, reviewID
}

func TestIntegrationCatalogRepository_Creators(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	creatorID, _ := seedCatalog(t, ctx, repo)

	creators, err := repo.ListRecommendedCreators(ctx)
	if err != nil {
		t.Fatalf("ListRecommendedCreators failed: %v", err)
	}
	if len(creators) != 1 || creators[0].ID != creatorID {
		t.Fatalf("Expected only the recommended creator, got %+v", creators)
	}

	for _, slug := range []string{"adabuilds", "AdaBuilds", "ADABUILDS"} {
		c, err := repo.GetCreatorBySlug(ctx, slug)
		if err != nil {
			t.Fatalf("GetCreatorBySlug(%q) failed: %v", slug, err)
		}
		if c.ID != creatorID {
			t.Errorf("GetCreatorBySlug(%q) returned id %d", slug, c.ID)
		}
	}

	if _, err := repo.GetCreatorBySlug(ctx, "hidden"); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("Expected ErrCreatorNotFound for unrecommended creator, got %v", err)
	}
}

func TestIntegrationCatalogRepository_Offerings(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	creatorID, _ := seedCatalog(t, ctx, repo)

	byCreator, err := repo.ListOfferingsByCreator(ctx, creatorID)
	if err != nil {
		t.Fatalf("ListOfferingsByCreator failed: %v", err)
	}
	if len(byCreator) != 2 {
		t.Fatalf("Expected 2 recommended offerings, got %d", len(byCreator))
	}
	if byCreator[0].Title != "Alpha Community" {
		t.Errorf("Expected title order, got %q first", byCreator[0].Title)
	}
	if len(byCreator[0].Pros) != 2 || byCreator[0].Cons[0] != "pricey" {
		t.Errorf("pros/cons not scanned: %+v / %+v", byCreator[0].Pros, byCreator[0].Cons)
	}

	all, err := repo.ListRecommendedOfferings(ctx)
	if err != nil {
		t.Fatalf("ListRecommendedOfferings failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 offerings, got %d", len(all))
	}
	if all[0].Title != "Alpha Community" || all[0].CreatorName != "Ada Builder" {
		t.Errorf("Expected best rated first with creator name, got %+v", all[0])
	}
}

func TestIntegrationCatalogRepository_ContentReviews(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	creatorID, reviewID := seedCatalog(t, ctx, repo)

	byCreator, err := repo.ListContentReviewsByCreator(ctx, creatorID)
	if err != nil {
		t.Fatalf("ListContentReviewsByCreator failed: %v", err)
	}
	if len(byCreator) != 1 {
		t.Fatalf("Expected 1 recommended review, got %d", len(byCreator))
	}

	all, err := repo.ListRecommendedContentReviews(ctx)
	if err != nil {
		t.Fatalf("ListRecommendedContentReviews failed: %v", err)
	}
	if len(all) != 1 || all[0].CreatorHandle != "@AdaBuilds" {
		t.Fatalf("Expected recommended review with creator handle, got %+v", all)
	}

	review, err := repo.GetContentReviewByID(ctx, reviewID)
	if err != nil {
		t.Fatalf("GetContentReviewByID failed: %v", err)
	}
	if review.CreatorYoutube != "https://youtube.com/@adabuilds" {
		t.Errorf("CreatorYoutube mismatch: %q", review.CreatorYoutube)
	}

	if _, err := repo.GetContentReviewByID(ctx, reviewID+1000); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound, got %v", err)
	}
}
