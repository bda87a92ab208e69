package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Subscriptions     map[string]uint64
	Verifications     map[string]uint64
	EmailSends        map[string]uint64 // keyed "provider/status"
	FeedbackSubmitted map[string]uint64
	RateLimited       map[string]uint64

	CatalogCacheHits   uint64
	CatalogCacheMisses uint64
	HTTPRequests       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                sync.Mutex
	subscriptions     map[string]uint64
	verifications     map[string]uint64
	emailSends        map[string]uint64
	feedbackSubmitted map[string]uint64
	rateLimited       map[string]uint64

	catalogCacheHits   uint64
	catalogCacheMisses uint64
	httpRequests       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		subscriptions:     make(map[string]uint64),
		verifications:     make(map[string]uint64),
		emailSends:        make(map[string]uint64),
		feedbackSubmitted: make(map[string]uint64),
		rateLimited:       make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Subscriptions:      copyCounts(m.subscriptions),
		Verifications:      copyCounts(m.verifications),
		EmailSends:         copyCounts(m.emailSends),
		FeedbackSubmitted:  copyCounts(m.feedbackSubmitted),
		RateLimited:        copyCounts(m.rateLimited),
		CatalogCacheHits:   atomic.LoadUint64(&m.catalogCacheHits),
		CatalogCacheMisses: atomic.LoadUint64(&m.catalogCacheMisses),
		HTTPRequests:       atomic.LoadUint64(&m.httpRequests),
	}
}

// IncSubscription counts a signup by status.
func (m *InMemoryRecorder) IncSubscription(status string) {
	m.inc(m.subscriptions, status)
}

// IncVerification counts a verification by outcome.
func (m *InMemoryRecorder) IncVerification(outcome string) {
	m.inc(m.verifications, outcome)
}

// ObserveEmailSend counts an email send attempt.
func (m *InMemoryRecorder) ObserveEmailSend(provider, status string, duration time.Duration) {
	m.inc(m.emailSends, provider+"/"+status)
}

// IncFeedbackSubmitted counts a feedback submission by status.
func (m *InMemoryRecorder) IncFeedbackSubmitted(status string) {
	m.inc(m.feedbackSubmitted, status)
}

// IncCatalogCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCatalogCacheHit() {
	atomic.AddUint64(&m.catalogCacheHits, 1)
}

// IncCatalogCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCatalogCacheMiss() {
	atomic.AddUint64(&m.catalogCacheMisses, 1)
}

// IncRateLimited counts a rejected request by limiter scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.inc(m.rateLimited, scope)
}

// ObserveHTTPRequest counts served requests.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
