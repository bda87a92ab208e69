package model

import (
	"strings"
	"time"
)

// OfferingType enumerates the kinds of offerings.
type OfferingType string

const (
	OfferingCommunity   OfferingType = "community"
	OfferingCourse      OfferingType = "course"
	OfferingNewsletter  OfferingType = "newsletter"
	OfferingFreeContent OfferingType = "free_content"
)

// Verdict is the editorial verdict on a content review.
type Verdict string

const (
	VerdictRecommended Verdict = "recommended"
	VerdictSkip        Verdict = "skip"
	VerdictOutdated    Verdict = "outdated"
)

// Creator is a read-only catalog entry for a content creator.
type Creator struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Handle              string     `json:"handle"`
	WebsiteURL          *string    `json:"website_url,omitempty"`
	YoutubeURL          *string    `json:"youtube_url,omitempty"`
	PrimarySocialURL    *string    `json:"primary_social_url,omitempty"`
	SubscriberCount     *int64     `json:"subscriber_count,omitempty"`
	FocusArea           *string    `json:"focus_area,omitempty"`
	TargetAudience      *string    `json:"target_audience,omitempty"`
	ContentStyle        *string    `json:"content_style,omitempty"`
	ContentQualityScore *float64   `json:"content_quality_score,omitempty"`
	TeachingStyle       *string    `json:"teaching_style,omitempty"`
	UpdateFrequency     *string    `json:"update_frequency,omitempty"`
	IsRecommended       bool       `json:"is_recommended"`
	LastReviewed        *time.Time `json:"last_reviewed,omitempty"`
	ReviewSummary       *string    `json:"review_summary,omitempty"`
}

// Slug returns the handle without its leading "@", lowercased.
func (c *Creator) Slug() string {
	return strings.ToLower(strings.TrimPrefix(c.Handle, "@"))
}

// Offering is a paid or free product sold by a creator.
type Offering struct {
	ID                     int64        `json:"id"`
	CreatorID              int64        `json:"creator_id"`
	Title                  string       `json:"title"`
	Type                   OfferingType `json:"type"`
	JoinURL                *string      `json:"join_url,omitempty"`
	PriceMonthly           *float64     `json:"price_monthly,omitempty"`
	PriceYearly            *float64     `json:"price_yearly,omitempty"`
	TrialAvailable         bool         `json:"trial_available"`
	RefundPolicy           *string      `json:"refund_policy,omitempty"`
	RequiresApplication    bool         `json:"requires_application"`
	WaitlistStatus         bool         `json:"waitlist_status"`
	MemberCount            *int64       `json:"member_count,omitempty"`
	TAERating              *float64     `json:"tae_rating,omitempty"`
	ValueProposition       *string      `json:"value_proposition,omitempty"`
	BestFor                *string      `json:"best_for,omitempty"`
	Pros                   []string     `json:"pros"`
	Cons                   []string     `json:"cons"`
	WorthItVerdict         *string      `json:"worth_it_verdict,omitempty"`
	AffiliateLink          *string      `json:"affiliate_link,omitempty"`
	IsCurrentlyRecommended bool         `json:"is_currently_recommended"`
	LastReviewed           *time.Time   `json:"last_reviewed,omitempty"`

	// Joined from creators; empty when the query does not join.
	CreatorName string `json:"creator_name,omitempty"`
}

// ContentReview is a tested tutorial, review or explainer.
type ContentReview struct {
	ID                  int64      `json:"id"`
	CreatorID           int64      `json:"creator_id"`
	Title               string     `json:"title"`
	URL                 string     `json:"url"`
	ContentType         string     `json:"content_type"`
	DurationMinutes     *int       `json:"duration_minutes,omitempty"`
	PublishedDate       *time.Time `json:"published_date,omitempty"`
	ActuallyWorks       *bool      `json:"actually_works,omitempty"`
	Difficulty          *string    `json:"difficulty,omitempty"`
	TimeToCompleteHours *float64   `json:"time_to_complete_hours,omitempty"`
	Prerequisites       *string    `json:"prerequisites,omitempty"`
	CommonIssues        *string    `json:"common_issues,omitempty"`
	KeyBenefit          *string    `json:"key_benefit,omitempty"`
	UpdatedRecently     bool       `json:"updated_recently"`
	Verdict             Verdict    `json:"tae_verdict"`
	LastTestedDate      *time.Time `json:"last_tested_date,omitempty"`
	TesterNotes         *string    `json:"tester_notes,omitempty"`

	// Joined from creators; empty when the query does not join.
	CreatorName    string `json:"creator_name,omitempty"`
	CreatorHandle  string `json:"creator_handle,omitempty"`
	CreatorYoutube string `json:"creator_youtube,omitempty"`
}

// CreatorProfile bundles a creator with its recommended offerings and content.
type CreatorProfile struct {
	Creator        *Creator         `json:"creator"`
	Offerings      []*Offering      `json:"offerings"`
	ContentReviews []*ContentReview `json:"content_reviews"`
}
