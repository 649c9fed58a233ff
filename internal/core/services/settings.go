package services

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyServiceBaseURL     = "service.base_url"
	KeyServiceAskTimeout  = "service.ask_timeout_seconds"
	KeyServiceMaxAttempts = "service.max_attempts"
	KeyServiceBackoff     = "service.backoff_ms"
	KeyServiceRateLimit   = "service.rate_limit"
	KeyServiceBurst       = "service.burst"
	KeyDocumentsRetention = "documents.retention_days"
	KeyDocumentsMax       = "documents.max"
)

// settingParsers convert and validate a raw value for each recognised key.
var settingParsers = map[string]func(string) (any, error){
	KeyServiceBaseURL:     parseBaseURL,
	KeyServiceAskTimeout:  intAtLeast(1),
	KeyServiceMaxAttempts: intAtLeast(1),
	KeyServiceBackoff:     intAtLeast(0),
	KeyServiceRateLimit:   parseRate,
	KeyServiceBurst:       intAtLeast(1),
	KeyDocumentsRetention: intAtLeast(1),
	KeyDocumentsMax:       intAtLeast(0),
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or out-of-range stored values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, errors.New("config store not configured")
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Service: domain.ServiceSettings{
			BaseURL:     s.getBaseURL(defaults.Service.BaseURL),
			AskTimeout:  time.Duration(s.getInt(KeyServiceAskTimeout, 1, 30)) * time.Second,
			MaxAttempts: s.getInt(KeyServiceMaxAttempts, 1, defaults.Service.MaxAttempts),
			BackoffStep: time.Duration(s.getInt(KeyServiceBackoff, 0, 1000)) * time.Millisecond,
			RateLimit:   s.getRate(defaults.Service.RateLimit),
			Burst:       s.getInt(KeyServiceBurst, 1, defaults.Service.Burst),
		},
		Documents: domain.DocumentSettings{
			Retention:    time.Duration(s.getInt(KeyDocumentsRetention, 1, 30)) * 24 * time.Hour,
			MaxDocuments: s.getInt(KeyDocumentsMax, 0, defaults.Documents.MaxDocuments),
		},
	}

	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return errors.New("config store not configured")
	}
	parse, ok := settingParsers[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingParsers))
	for k := range settingParsers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getBaseURL(defaultVal string) string {
	val, err := parseBaseURL(s.configStore.GetString(KeyServiceBaseURL))
	if err != nil {
		return defaultVal
	}
	return val.(string)
}

func (s *SettingsService) getInt(key string, minVal, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < minVal {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getRate(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(KeyServiceRateLimit); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(KeyServiceRateLimit)
	if val < 0 {
		return defaultVal
	}
	return val
}

func parseBaseURL(raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("expected an http(s) URL, got %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func parseRate(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return nil, fmt.Errorf("expected a non-negative number, got %q", raw)
	}
	return f, nil
}

func intAtLeast(minVal int) func(string) (any, error) {
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minVal {
			return nil, fmt.Errorf("expected an integer >= %d, got %q", minVal, raw)
		}
		return n, nil
	}
}
