package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/repository"
)

// CatalogStore reads the creator catalog.
type CatalogStore interface {
	ListRecommendedCreators(ctx context.Context) ([]*model.Creator, error)
	GetCreatorBySlug(ctx context.Context, slug string) (*model.Creator, error)
	ListOfferingsByCreator(ctx context.Context, creatorID int64) ([]*model.Offering, error)
	ListRecommendedOfferings(ctx context.Context) ([]*model.Offering, error)
	ListContentReviewsByCreator(ctx context.Context, creatorID int64) ([]*model.ContentReview, error)
	ListRecommendedContentReviews(ctx context.Context) ([]*model.ContentReview, error)
	GetContentReviewByID(ctx context.Context, id int64) (*model.ContentReview, error)
}

// CatalogCache is a JSON cache-aside store. Any read error counts as a miss.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	IsNegativelyCached(ctx context.Context, key string) (bool, error)
	SetNegativeCache(ctx context.Context, key string) error
}

// CatalogService serves read-only catalog data with Redis cache-aside.
type CatalogService struct {
	store   CatalogStore
	cache   CatalogCache
	ttl     time.Duration
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewCatalogService creates a new CatalogService. A nil cache or a zero TTL
// disables caching.
func NewCatalogService(store CatalogStore, cache CatalogCache, ttl time.Duration, recorder metrics.Recorder, logger *slog.Logger) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		metrics: recorder,
		logger:  logger,
	}
}

// ListCreators returns recommended creators ordered by name.
func (s *CatalogService) ListCreators(ctx context.Context) ([]*model.Creator, error) {
	return cacheAside(ctx, s, "creators", s.store.ListRecommendedCreators)
}

// GetCreatorProfile returns a recommended creator by handle slug, with its
// recommended offerings and content.
func (s *CatalogService) GetCreatorProfile(ctx context.Context, slug string) (*model.CreatorProfile, error) {
	slug = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(slug), "@"))
	if slug == "" {
		return nil, ErrCreatorNotFound
	}

	key := "creator:" + slug
	if s.isNegative(ctx, key) {
		return nil, ErrCreatorNotFound
	}

	profile, err := cacheAside(ctx, s, key, func(ctx context.Context) (*model.CreatorProfile, error) {
		creator, err := s.store.GetCreatorBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		offerings, err := s.store.ListOfferingsByCreator(ctx, creator.ID)
		if err != nil {
			return nil, err
		}
		reviews, err := s.store.ListContentReviewsByCreator(ctx, creator.ID)
		if err != nil {
			return nil, err
		}
		return &model.CreatorProfile{
			Creator:        creator,
			Offerings:      offerings,
			ContentReviews: reviews,
		}, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			s.setNegative(ctx, key)
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}

	return profile, nil
}

// ListOfferings returns currently recommended offerings, best rated first.
func (s *CatalogService) ListOfferings(ctx context.Context) ([]*model.Offering, error) {
	return cacheAside(ctx, s, "offerings", s.store.ListRecommendedOfferings)
}

// ListContent returns recommended content reviews, most recently tested first.
func (s *CatalogService) ListContent(ctx context.Context) ([]*model.ContentReview, error) {
	return cacheAside(ctx, s, "content", s.store.ListRecommendedContentReviews)
}

// GetContent returns one content review by id.
func (s *CatalogService) GetContent(ctx context.Context, id int64) (*model.ContentReview, error) {
	key := "content:" + strconv.FormatInt(id, 10)
	if s.isNegative(ctx, key) {
		return nil, ErrContentNotFound
	}

	review, err := cacheAside(ctx, s, key, func(ctx context.Context) (*model.ContentReview, error) {
		return s.store.GetContentReviewByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			s.setNegative(ctx, key)
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	return review, nil
}

// cacheAside reads key from the cache, falling back to load and backfilling.
// Cache failures never fail the request.
func cacheAside[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cachingEnabled() {
		var cached T
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			s.metrics.IncCatalogCacheHit()
			return cached, nil
		}
		s.metrics.IncCatalogCacheMiss()
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cachingEnabled() {
		if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "catalog cache backfill failed", "key", key, "error", err)
		}
	}

	return value, nil
}

func (s *CatalogService) cachingEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *CatalogService) isNegative(ctx context.Context, key string) bool {
	if !s.cachingEnabled() {
		return false
	}
	neg, err := s.cache.IsNegativelyCached(ctx, key)
	return err == nil && neg
}

func (s *CatalogService) setNegative(ctx context.Context, key string) {
	if !s.cachingEnabled() {
		return
	}
	_ = s.cache.SetNegativeCache(ctx, key)
}
