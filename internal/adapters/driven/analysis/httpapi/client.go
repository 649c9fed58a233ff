// Package httpapi provides the analysis service adapter over HTTP.
//
// The service exposes two endpoints: POST /upload takes a multipart PDF and
// returns its extracted text, POST /ask takes a question with the document
// text as context and returns a structured answer.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.AnalysisService = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = domain.DefaultServiceURL
	DefaultAskTimeout = domain.DefaultAskTimeout

	// MaxQuestionLength is the longest accepted question, in characters.
	MaxQuestionLength = 1000

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 64 << 10
)

var clientLog = logger.Named("httpapi")

// Config holds configuration for the analysis service client.
type Config struct {
	// BaseURL is the service root (default: http://localhost:5001).
	BaseURL string

	// AskTimeout bounds each /ask attempt (default: 30s).
	AskTimeout time.Duration

	// Retry governs /ask attempts (default: domain.DefaultRetryPolicy()).
	Retry *domain.RetryPolicy

	// RateLimit caps /ask attempts per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter bucket size (default: 1).
	Burst int

	// UserAgent is sent with every request when set.
	UserAgent string

	// HTTPClient is the transport (default: a client without a global timeout).
	HTTPClient *http.Client

	// Sleep waits between attempts. It must return early with ctx.Err()
	// when ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client talks to the analysis service.
type Client struct {
	client     *http.Client
	baseURL    string
	askTimeout time.Duration
	retry      domain.RetryPolicy
	limiter    *rate.Limiter
	userAgent  string
	sleep      func(ctx context.Context, d time.Duration) error
}

// askRequest is the /ask request format.
type askRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	Text string `json:"text"`
}

// NewClient creates a new analysis service client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AskTimeout <= 0 {
		cfg.AskTimeout = DefaultAskTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	retry := domain.DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	c := &Client{
		client:     cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		askTimeout: cfg.AskTimeout,
		retry:      retry,
		userAgent:  cfg.UserAgent,
		sleep:      cfg.Sleep,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// NewClientFromSettings creates a client configured by the service settings.
func NewClientFromSettings(s domain.ServiceSettings, userAgent string) *Client {
	policy := s.RetryPolicy()
	return NewClient(Config{
		BaseURL:    s.BaseURL,
		AskTimeout: s.AskTimeout,
		Retry:      &policy,
		RateLimit:  s.RateLimit,
		Burst:      s.Burst,
		UserAgent:  userAgent,
	})
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExtractText uploads a PDF and returns its extracted text. Single attempt.
func (c *Client) ExtractText(ctx context.Context, file driven.UploadFile, onProgress driven.ProgressFunc) (string, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	body, contentType, err := multipartBody(file)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload",
		newProgressReader(body, onProgress))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	clientLog.Debug("POST /upload %s (%d bytes)", file.Name, len(body))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(ctx, ctx, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return "", classify(ctx, ctx, err)
		}
		return "", fmt.Errorf("%w: decoding upload response: %w", domain.ErrInvalidResponse, err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("%w: response missing text content", domain.ErrInvalidResponse)
	}

	onProgress(100)
	return out.Text, nil
}

// Answer asks a question about the document text, retrying per the policy.
func (c *Client) Answer(ctx context.Context, question, docContext string) (*domain.Insight, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return nil, fmt.Errorf("%w: question is too long, maximum length is %d characters",
			domain.ErrValidation, MaxQuestionLength)
	}

	payload, err := json.Marshal(askRequest{Question: q, Context: docContext})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	attempts := c.retry.Attempts()
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrCanceled, err)
			}
		}

		clientLog.Debug("POST /ask attempt %d of %d", attempt+1, attempts)
		insight, err := c.askOnce(ctx, payload)
		if err == nil {
			return insight, nil
		}
		if errors.Is(err, domain.ErrCanceled) || !c.retry.IsRetryable(err) {
			return nil, err
		}

		lastErr = err
		if !c.retry.ShouldRetry(err, attempt) {
			break
		}

		delay := c.retry.Delay(attempt)
		clientLog.Warn("Attempt %d failed (%v), retrying in %s", attempt+1, err, delay)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCanceled, err)
		}
	}

	return nil, &domain.RetriesExhaustedError{Attempts: attempts, Last: lastErr}
}

// askOnce performs a single /ask attempt under its own deadline.
func (c *Client) askOnce(ctx context.Context, payload []byte) (*domain.Insight, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.askTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, attemptCtx, err)
	}
	return normalizeInsight(data)
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// checkStatus turns a non-2xx response into a ServerError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.ServerError{StatusCode: resp.StatusCode, Body: string(body)}
}

// classify maps a transport error onto the domain taxonomy.
// parent is the caller's context; attempt may carry a per-attempt deadline.
func classify(parent, attempt context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrCanceled, parent.Err())
	}
	if errors.Is(attempt.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

// multipartBody encodes file as the "file" field of a multipart form.
func multipartBody(file driven.UploadFile) ([]byte, string, error) {
	var buf bytes.Buffer
	if file.Size > 0 {
		buf.Grow(int(file.Size) + 512)
	}
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	header.Set("Content-Type", domain.PDFMIMEType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
