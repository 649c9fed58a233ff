package domain

import (
	"net/url"
	"time"
)

// DefaultServiceURL is where the analysis service listens when run locally.
const DefaultServiceURL = "http://localhost:5001"

// DefaultAskTimeout bounds a single /ask attempt.
const DefaultAskTimeout = 30 * time.Second

// ServiceSettings configures the remote analysis service client.
type ServiceSettings struct {
	// BaseURL is the service root, without a trailing slash.
	BaseURL string

	// AskTimeout bounds each /ask attempt.
	AskTimeout time.Duration

	// MaxAttempts is the /ask attempt budget.
	MaxAttempts int

	// BackoffStep is the linear backoff unit between attempts.
	BackoffStep time.Duration

	// RateLimit caps /ask attempts per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter bucket size.
	Burst int
}

// RetryPolicy builds the retry policy these settings describe.
func (s ServiceSettings) RetryPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	if s.MaxAttempts > 0 {
		p.MaxAttempts = s.MaxAttempts
	}
	if s.BackoffStep > 0 {
		p.Backoff = LinearBackoff(s.BackoffStep)
	}
	return p
}

// Validate checks the service settings.
func (s ServiceSettings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidInput
	}
	if s.AskTimeout <= 0 || s.MaxAttempts < 1 || s.BackoffStep < 0 || s.RateLimit < 0 || s.Burst < 0 {
		return ErrInvalidInput
	}
	return nil
}

// DocumentSettings configures local document retention.
type DocumentSettings struct {
	// Retention is how long a new document lives before it expires.
	Retention time.Duration

	// MaxDocuments bounds the stored list. Zero keeps every document.
	MaxDocuments int
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Service   ServiceSettings
	Documents DocumentSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Service: ServiceSettings{
			BaseURL:     DefaultServiceURL,
			AskTimeout:  DefaultAskTimeout,
			MaxAttempts: DefaultMaxAttempts,
			BackoffStep: DefaultBackoffStep,
			Burst:       1,
		},
		Documents: DocumentSettings{
			Retention: DefaultRetention,
		},
	}
}
