package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/repository"
)

// ============================================================================
// Subscriber store
// ============================================================================

type fakeSubscriberStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.Subscriber
	writes  int

	getErr    error
	createErr error
	markErr   error
}

func newFakeSubscriberStore() *fakeSubscriberStore {
	return &fakeSubscriberStore{byEmail: make(map[string]*model.Subscriber)}
}

func (f *fakeSubscriberStore) GetSubscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrSubscriberNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeSubscriberStore) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[sub.Email]; ok {
		return repository.ErrEmailExists
	}
	cp := *sub
	f.byEmail[sub.Email] = &cp
	f.writes++
	return nil
}

func (f *fakeSubscriberStore) GetSubscriberByTokenHash(ctx context.Context, hash string) (*model.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, sub := range f.byEmail {
		if sub.TokenHash == hash {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, repository.ErrSubscriberNotFound
}

func (f *fakeSubscriberStore) MarkSubscriberVerified(ctx context.Context, hash string, at time.Time) (*model.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return nil, f.markErr
	}
	for _, sub := range f.byEmail {
		if sub.TokenHash == hash && !sub.Verified {
			sub.Verified = true
			sub.VerifiedAt = &at
			f.writes++
			cp := *sub
			return &cp, nil
		}
	}
	return nil, repository.ErrSubscriberNotPending
}

func (f *fakeSubscriberStore) get(email string) *model.Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email]
}

func (f *fakeSubscriberStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byEmail)
}

// ============================================================================
// Verification sender
// ============================================================================

type sentEmail struct {
	to  string
	url string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendVerification(ctx context.Context, to, verifyURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, url: verifyURL})
	return nil
}

// ============================================================================
// Feedback store
// ============================================================================

type fakeFeedbackStore struct {
	entries   []*model.Feedback
	createErr error
	listErr   error
}

func (f *fakeFeedbackStore) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *fb
	f.entries = append(f.entries, &cp)
	return nil
}

// ListVerifiedFeedback mirrors the SQL: verified only, newest first, limited.
func (f *fakeFeedbackStore) ListVerifiedFeedback(ctx context.Context, limit int) ([]*model.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Feedback
	for _, fb := range f.entries {
		if fb.Verified {
			cp := *fb
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ============================================================================
// Catalog store and cache
// ============================================================================

type fakeCatalogStore struct {
	creators  []*model.Creator
	offerings []*model.Offering
	reviews   []*model.ContentReview
	calls     int
	err       error
}

func (f *fakeCatalogStore) ListRecommendedCreators(ctx context.Context) ([]*model.Creator, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.creators, nil
}

func (f *fakeCatalogStore) GetCreatorBySlug(ctx context.Context, slug string) (*model.Creator, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.creators {
		if c.IsRecommended && c.Slug() == slug {
			return c, nil
		}
	}
	return nil, repository.ErrCreatorNotFound
}

func (f *fakeCatalogStore) ListOfferingsByCreator(ctx context.Context, creatorID int64) ([]*model.Offering, error) {
	out := []*model.Offering{}
	for _, o := range f.offerings {
		if o.CreatorID == creatorID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListRecommendedOfferings(ctx context.Context) ([]*model.Offering, error) {
	f.calls++
	return f.offerings, f.err
}

func (f *fakeCatalogStore) ListContentReviewsByCreator(ctx context.Context, creatorID int64) ([]*model.ContentReview, error) {
	out := []*model.ContentReview{}
	for _, r := range f.reviews {
		if r.CreatorID == creatorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListRecommendedContentReviews(ctx context.Context) ([]*model.ContentReview, error) {
	f.calls++
	return f.reviews, f.err
}

func (f *fakeCatalogStore) GetContentReviewByID(ctx context.Context, id int64) (*model.ContentReview, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrContentNotFound
}

var errFakeMiss = errors.New("miss")

type fakeCatalogCache struct {
	data     map[string][]byte
	negative map[string]bool
	down     bool
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{data: make(map[string][]byte), negative: make(map[string]bool)}
}

func (f *fakeCatalogCache) GetJSON(ctx context.Context, key string, dest any) error {
	if f.down {
		return errors.New("redis down")
	}
	raw, ok := f.data[key]
	if !ok {
		return errFakeMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCatalogCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.down {
		return errors.New("redis down")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	delete(f.negative, key)
	return nil
}

func (f *fakeCatalogCache) IsNegativelyCached(ctx context.Context, key string) (bool, error) {
	if f.down {
		return false, errors.New("redis down")
	}
	return f.negative[key], nil
}

func (f *fakeCatalogCache) SetNegativeCache(ctx context.Context, key string) error {
	if f.down {
		return errors.New("redis down")
	}
	f.negative[key] = true
	return nil
}
