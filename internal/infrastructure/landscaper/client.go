// Package landscaper is the HTTP client for the Landscaper Django service.
package landscaper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/landscape/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseSize = 10 * 1024 * 1024

// HTTPClient implements landscaper.Client over the Django REST API
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    Metrics
	logger     *zap.Logger
}

// Metrics records calls to the service. *telemetry.AppMetrics satisfies it.
type Metrics interface {
	RecordLandscaperCall(ctx context.Context, op string, d time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) RecordLandscaperCall(context.Context, string, time.Duration, error) {}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithMetrics records the latency and outcome of every call
func WithMetrics(m Metrics) Option {
	return func(h *HTTPClient) {
		if m != nil {
			h.metrics = m
		}
	}
}

// NewHTTPClient creates a client for the service at cfg.BaseURL. Outgoing
// requests carry trace context.
func NewHTTPClient(cfg config.LandscaperConfig, log *zap.Logger, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("landscaper: invalid base url %q", cfg.BaseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: nopMetrics{},
		logger:  log.Named("landscaper"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendMessage posts a chat message; an empty threadID starts a new thread
func (c *HTTPClient) SendMessage(ctx context.Context, projectID uuid.UUID, threadID, content string) (*landscaper.Reply, error) {
	body := map[string]string{"message": content}
	if threadID != "" {
		body["thread_id"] = threadID
	}
	var reply landscaper.Reply
	if err := c.do(ctx, "send_message", http.MethodPost, projectPath(projectID, "chat"), nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListMessages returns the messages of a thread, or of the project's latest
// thread when threadID is empty
func (c *HTTPClient) ListMessages(ctx context.Context, projectID uuid.UUID, threadID string) ([]landscaper.Message, error) {
	q := url.Values{}
	if threadID != "" {
		q.Set("thread_id", threadID)
	}
	var resp struct {
		Messages []landscaper.Message `json:"messages"`
	}
	if err := c.do(ctx, "list_messages", http.MethodGet, projectPath(projectID, "messages"), q, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Messages), nil
}

// ListThreads returns the project's conversation threads
func (c *HTTPClient) ListThreads(ctx context.Context, projectID uuid.UUID) ([]landscaper.Thread, error) {
	var resp struct {
		Threads []landscaper.Thread `json:"threads"`
	}
	if err := c.do(ctx, "list_threads", http.MethodGet, projectPath(projectID, "threads"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Threads), nil
}

// ExtractDocument asks the service to read attribute values from a document
func (c *HTTPClient) ExtractDocument(ctx context.Context, req landscaper.ExtractionRequest) (*landscaper.ExtractionResult, error) {
	var result landscaper.ExtractionResult
	if err := c.do(ctx, "extract_document", http.MethodPost, "/api/dms/extract/", nil, req, &result); err != nil {
		return nil, err
	}
	if result.Attributes == nil {
		result.Attributes = map[string]any{}
	}
	return &result, nil
}

// ListProposals returns the project's mutation proposals
func (c *HTTPClient) ListProposals(ctx context.Context, projectID uuid.UUID) ([]landscaper.Proposal, error) {
	var resp struct {
		Proposals []landscaper.Proposal `json:"proposals"`
	}
	if err := c.do(ctx, "list_proposals", http.MethodGet, projectPath(projectID, "proposals"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Proposals), nil
}

// ApplyProposal applies a pending proposal
func (c *HTTPClient) ApplyProposal(ctx context.Context, proposalID string) (*landscaper.Proposal, error) {
	return c.reviewProposal(ctx, proposalID, "apply", nil)
}

// RejectProposal rejects a pending proposal
func (c *HTTPClient) RejectProposal(ctx context.Context, proposalID, reason string) (*landscaper.Proposal, error) {
	return c.reviewProposal(ctx, proposalID, "reject", map[string]string{"reason": reason})
}

func (c *HTTPClient) reviewProposal(ctx context.Context, proposalID, action string, body any) (*landscaper.Proposal, error) {
	if strings.TrimSpace(proposalID) == "" {
		return nil, shared.NewInvalidInputError("proposal id is required")
	}
	var p landscaper.Proposal
	path := "/api/landscaper/proposals/" + url.PathEscape(proposalID) + "/" + action + "/"
	if err := c.do(ctx, action+"_proposal", http.MethodPost, path, nil, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func projectPath(projectID uuid.UUID, resource string) string {
	return "/api/landscaper/projects/" + projectID.String() + "/" + resource + "/"
}

// do sends one request, recorded under op, and decodes a 2xx JSON body into out. Transport
// failures and 5xx become UPSTREAM_UNAVAILABLE, 404 NOT_FOUND, and other
// 4xx INVALID_INPUT carrying the upstream body as details.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.RecordLandscaperCall(ctx, op, time.Since(start), err) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("landscaper: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("landscaper: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if rid := logger.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("landscaper request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		details := "landscaper service unreachable"
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			details = "landscaper service timed out"
		}
		return shared.ErrUpstreamUnavailable.WithDetails(details).Wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return shared.ErrUpstreamUnavailable.WithDetails("failed to read landscaper response").Wrap(err)
	}
	c.logger.Debug("landscaper request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if err := statusError(resp.StatusCode, raw); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return shared.ErrUpstreamUnavailable.WithDetails("landscaper returned malformed JSON").Wrap(err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return shared.NewDomainError(shared.CodeNotFound, upstreamMessage(body, "resource not found in landscaper"))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return shared.NewDomainError(shared.CodeInvalidInput, upstreamMessage(body, "landscaper rejected the request")).
			WithDetails(upstreamDetails(body))
	case status == http.StatusConflict:
		return shared.NewDomainError(shared.CodeConflict, upstreamMessage(body, "landscaper reported a conflict")).
			WithDetails(upstreamDetails(body))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// our credentials, not the caller's
		return shared.ErrUpstreamUnavailable.WithDetails(fmt.Sprintf("landscaper refused credentials (HTTP %d)", status))
	case status >= 500:
		return shared.ErrUpstreamUnavailable.WithDetails(fmt.Sprintf("landscaper returned HTTP %d", status))
	default:
		return shared.NewDomainError(shared.CodeInvalidInput, upstreamMessage(body, fmt.Sprintf("landscaper returned HTTP %d", status))).
			WithDetails(upstreamDetails(body))
	}
}

// upstreamMessage picks the DRF "detail" or "error" string when present
func upstreamMessage(body []byte, fallback string) string {
	var m map[string]any
	if json.Unmarshal(body, &m) != nil {
		return fallback
	}
	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func upstreamDetails(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		if s := strings.TrimSpace(string(body)); s != "" {
			return s
		}
		return nil
	}
	return v
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ landscaper.Client = (*HTTPClient)(nil)
