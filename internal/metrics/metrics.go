// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Newsletter metrics
	IncSubscription(status string)                                    // subscribed, already_subscribed, notification_pending, rejected, error
	IncVerification(outcome string)                                   // no-token-supplied, token-not-found, already-verified, newly-verified, error
	ObserveEmailSend(provider, status string, duration time.Duration) // status: "sent" or "failed"

	// Feedback metrics
	IncFeedbackSubmitted(status string) // accepted, rejected, error

	// Catalog read metrics
	IncCatalogCacheHit()
	IncCatalogCacheMiss()

	// HTTP metrics
	IncRateLimited(scope string)
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
