package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentengineer/curator/internal/model"
	"github.com/jackc/pgx/v5"
)

// Common errors for catalog repository operations.
var (
	ErrCreatorNotFound = errors.New("creator not found")
	ErrContentNotFound = errors.New("content review not found")
)

const creatorColumns = `
	c.id, c.name, c.handle, c.website_url, c.youtube_url, c.primary_social_url, c.subscriber_count,
	c.focus_area, c.target_audience, c.content_style, c.content_quality_score, c.teaching_style,
	c.update_frequency, c.is_recommended, c.last_reviewed, c.review_summary`

const offeringColumns = `
	o.id, o.creator_id, o.title, o.type, o.join_url, o.price_monthly, o.price_yearly, o.trial_available,
	o.refund_policy, o.requires_application, o.waitlist_status, o.member_count, o.tae_rating,
	o.value_proposition, o.best_for, o.pros, o.cons, o.worth_it_verdict, o.affiliate_link,
	o.is_currently_recommended, o.last_reviewed`

const contentReviewColumns = `
	r.id, r.creator_id, r.title, r.url, r.content_type, r.duration_minutes, r.published_date,
	r.actually_works, r.difficulty, r.time_to_complete_hours, r.prerequisites, r.common_issues,
	r.key_benefit, r.updated_recently, r.tae_verdict, r.last_tested_date, r.tester_notes`

// ListRecommendedCreators returns recommended creators ordered by name.
func (r *Repository) ListRecommendedCreators(ctx context.Context) ([]*model.Creator, error) {
	query := `SELECT ` + creatorColumns + ` FROM creators c WHERE c.is_recommended = TRUE ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	defer rows.Close()

	creators := []*model.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating creators: %w", err)
	}

	return creators, nil
}

// GetCreatorBySlug finds a recommended creator whose handle, minus a leading
// "@", matches slug case-insensitively.
func (r *Repository) GetCreatorBySlug(ctx context.Context, slug string) (*model.Creator, error) {
	query := `
		SELECT ` + creatorColumns + `
		FROM creators c
		WHERE c.is_recommended = TRUE
		  AND LOWER(LTRIM(c.handle, '@')) = LOWER($1)
		ORDER BY c.id
		LIMIT 1
	`

	c, err := scanCreator(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to get creator by slug: %w", err)
	}

	return c, nil
}

// ListOfferingsByCreator returns a creator's currently recommended offerings ordered by title.
func (r *Repository) ListOfferingsByCreator(ctx context.Context, creatorID int64) ([]*model.Offering, error) {
	query := `
		SELECT ` + offeringColumns + `, ''
		FROM offerings o
		WHERE o.creator_id = $1 AND o.is_currently_recommended = TRUE
		ORDER BY o.title
	`
	return r.queryOfferings(ctx, query, creatorID)
}

// ListRecommendedOfferings returns every currently recommended offering with
// its creator's name, best rated first.
func (r *Repository) ListRecommendedOfferings(ctx context.Context) ([]*model.Offering, error) {
	query := `
		SELECT ` + offeringColumns + `, COALESCE(c.name, 'Unknown')
		FROM offerings o
		LEFT JOIN creators c ON c.id = o.creator_id
		WHERE o.is_currently_recommended = TRUE
		ORDER BY o.tae_rating DESC NULLS LAST, o.id
	`
	return r.queryOfferings(ctx, query)
}

// ListContentReviewsByCreator returns a creator's recommended content, most recently tested first.
func (r *Repository) ListContentReviewsByCreator(ctx context.Context, creatorID int64) ([]*model.ContentReview, error) {
	query := `
		SELECT ` + contentReviewColumns + `, '', '', ''
		FROM content_reviews r
		WHERE r.creator_id = $1 AND r.tae_verdict = 'recommended'
		ORDER BY r.last_tested_date DESC NULLS LAST, r.id
	`
	return r.queryContentReviews(ctx, query, creatorID)
}

// ListRecommendedContentReviews returns all recommended content with creator
// name and handle, most recently tested first.
func (r *Repository) ListRecommendedContentReviews(ctx context.Context) ([]*model.ContentReview, error) {
	query := `
		SELECT ` + contentReviewColumns + `, COALESCE(c.name, 'Unknown'), COALESCE(c.handle, ''), ''
		FROM content_reviews r
		LEFT JOIN creators c ON c.id = r.creator_id
		WHERE r.tae_verdict = 'recommended'
		ORDER BY r.last_tested_date DESC NULLS LAST, r.id
	`
	return r.queryContentReviews(ctx, query)
}

// GetContentReviewByID returns one content review with its creator's name,
// handle and YouTube URL. The verdict is not filtered.
func (r *Repository) GetContentReviewByID(ctx context.Context, id int64) (*model.ContentReview, error) {
	query := `
		SELECT ` + contentReviewColumns + `,
			COALESCE(c.name, 'Unknown'), COALESCE(c.handle, ''), COALESCE(c.youtube_url, '')
		FROM content_reviews r
		LEFT JOIN creators c ON c.id = r.creator_id
		WHERE r.id = $1
	`

	review, err := scanContentReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content review: %w", err)
	}

	return review, nil
}

// offeringScanTargets lists destinations in offeringColumns order.
// text[] columns scan straight into []string.
func offeringScanTargets(o *model.Offering) []any {
	return []any{
		&o.ID,
		&o.CreatorID,
		&o.Title,
		&o.Type,
		&o.JoinURL,
		&o.PriceMonthly,
		&o.PriceYearly,
		&o.TrialAvailable,
		&o.RefundPolicy,
		&o.RequiresApplication,
		&o.WaitlistStatus,
		&o.MemberCount,
		&o.TAERating,
		&o.ValueProposition,
		&o.BestFor,
		&o.Pros,
		&o.Cons,
		&o.WorthItVerdict,
		&o.AffiliateLink,
		&o.IsCurrentlyRecommended,
		&o.LastReviewed,
		&o.CreatorName,
	}
}

func (r *Repository) queryOfferings(ctx context.Context, query string, args ...any) ([]*model.Offering, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer rows.Close()

	offerings := []*model.Offering{}
	for rows.Next() {
		var o model.Offering
		if err := rows.Scan(offeringScanTargets(&o)...); err != nil {
			return nil, fmt.Errorf("failed to scan offering: %w", err)
		}
		if o.Pros == nil {
			o.Pros = []string{}
		}
		if o.Cons == nil {
			o.Cons = []string{}
		}
		offerings = append(offerings, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offerings: %w", err)
	}

	return offerings, nil
}

func (r *Repository) queryContentReviews(ctx context.Context, query string, args ...any) ([]*model.ContentReview, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.ContentReview{}
	for rows.Next() {
		review, err := scanContentReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content reviews: %w", err)
	}

	return reviews, nil
}

// scanCreator works for both pgx.Row and pgx.Rows.
func scanCreator(row pgx.Row) (*model.Creator, error) {
	var c model.Creator
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Handle,
		&c.WebsiteURL,
		&c.YoutubeURL,
		&c.PrimarySocialURL,
		&c.SubscriberCount,
		&c.FocusArea,
		&c.TargetAudience,
		&c.ContentStyle,
		&c.ContentQualityScore,
		&c.TeachingStyle,
		&c.UpdateFrequency,
		&c.IsRecommended,
		&c.LastReviewed,
		&c.ReviewSummary,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanContentReview(row pgx.Row) (*model.ContentReview, error) {
	var cr model.ContentReview
	err := row.Scan(
		&cr.ID,
		&cr.CreatorID,
		&cr.Title,
		&cr.URL,
		&cr.ContentType,
		&cr.DurationMinutes,
		&cr.PublishedDate,
		&cr.ActuallyWorks,
		&cr.Difficulty,
		&cr.TimeToCompleteHours,
		&cr.Prerequisites,
		&cr.CommonIssues,
		&cr.KeyBenefit,
		&cr.UpdatedRecently,
		&cr.Verdict,
		&cr.LastTestedDate,
		&cr.TesterNotes,
		&cr.CreatorName,
		&cr.CreatorHandle,
		&cr.CreatorYoutube,
	)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}
