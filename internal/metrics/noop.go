package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSubscription is a no-op.
func (n *NoopRecorder) IncSubscription(status string) {}

// IncVerification is a no-op.
func (n *NoopRecorder) IncVerification(outcome string) {}

// ObserveEmailSend is a no-op.
func (n *NoopRecorder) ObserveEmailSend(provider, status string, duration time.Duration) {}

// IncFeedbackSubmitted is a no-op.
func (n *NoopRecorder) IncFeedbackSubmitted(status string) {}

// IncCatalogCacheHit is a no-op.
func (n *NoopRecorder) IncCatalogCacheHit() {}

// IncCatalogCacheMiss is a no-op.
func (n *NoopRecorder) IncCatalogCacheMiss() {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited(scope string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
