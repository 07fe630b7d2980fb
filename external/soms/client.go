package soms

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	maxResponseBytes = 4 << 20
)

var errSOMSTransient = crerr.New("club backend transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the club backend's REST API and implements lineup.Backend.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryBackoff   time.Duration
	flightTimeout  time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

var _ lineup.Backend = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 500 * time.Millisecond
	}
	breakerCfg := cfg.CircuitBreaker.WithDefaults()
	maxRetries := max(cfg.MaxRetries, 0)

	// Every attempt plus the linear backoff between attempts.
	attempts := time.Duration(maxRetries + 1)
	flightTimeout := httpClient.Timeout*attempts + retryBackoff*attempts*(attempts-1)/2

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		retryBackoff:   retryBackoff,
		flightTimeout:  flightTimeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreakerFromConfig(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchSquad(ctx context.Context) ([]lineup.Player, error) {
	var envelope listEnvelope[playerRow]
	if err := c.getJSON(ctx, "/players", &envelope); err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}

	out := make([]lineup.Player, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if row.PlayerID <= 0 {
			continue
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (c *Client) FetchUpcomingMatches(ctx context.Context) ([]lineup.Match, error) {
	var envelope listEnvelope[matchRow]
	if err := c.getJSON(ctx, "/fixtures/upcoming", &envelope); err != nil {
		return nil, fmt.Errorf("fetch upcoming fixtures: %w", err)
	}

	out := make([]lineup.Match, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if row.MatchID <= 0 {
			continue
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (c *Client) FetchFormations(ctx context.Context) ([]lineup.FormationRef, error) {
	var envelope listEnvelope[formationRow]
	if err := c.getJSON(ctx, "/formations", &envelope); err != nil {
		return nil, fmt.Errorf("fetch formations: %w", err)
	}

	out := make([]lineup.FormationRef, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if row.FormationID <= 0 {
			continue
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (c *Client) FetchLineups(ctx context.Context) ([]lineup.Record, error) {
	var envelope listEnvelope[lineupRow]
	if err := c.getJSON(ctx, "/lineups", &envelope); err != nil {
		return nil, fmt.Errorf("fetch lineups: %w", err)
	}

	out := make([]lineup.Record, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if row.LineupID <= 0 {
			continue
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (c *Client) FetchLineupDetail(ctx context.Context, lineupID int64) ([]lineup.RoleAssignment, error) {
	if lineupID <= 0 {
		return nil, fmt.Errorf("%w: lineup id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope itemEnvelope[lineupDetailRow]
	path := "/lineups/" + strconv.FormatInt(lineupID, 10)
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch lineup detail id=%d: %w", lineupID, err)
	}

	out := make([]lineup.RoleAssignment, 0, len(envelope.Data.Slots))
	for _, row := range envelope.Data.Slots {
		if row.PlayerID <= 0 {
			continue
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// CreateLineup is never retried; the backend has no idempotency key and a
// retry after a lost response would create a duplicate lineup.
func (c *Client) CreateLineup(ctx context.Context, input lineup.CreateLineupInput) (int64, error) {
	if err := c.allow(ctx); err != nil {
		return 0, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(newCreateLineupRequest(input)); err != nil {
		return 0, fmt.Errorf("encode create lineup request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/lineup/create", buf.B)
	c.record(err)
	if err != nil {
		return 0, fmt.Errorf("create lineup: %w", c.classify(err))
	}

	var resp createLineupResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decode create lineup response: %w", err)
	}
	lineupID := resp.lineupID()
	if lineupID <= 0 {
		return 0, fmt.Errorf("%w: create lineup response has no lineup_id", usecase.ErrDependencyUnavailable)
	}
	return lineupID, nil
}

// BreakerStats reports the circuit guarding the club backend. ok is false when
// the breaker is disabled.
func (c *Client) BreakerStats() (resilience.CircuitStats, bool) {
	if !c.circuitEnabled {
		return resilience.CircuitStats{}, false
	}
	return c.breaker.Stats(), true
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if err := c.allow(ctx); err != nil {
		return err
	}

	// The fetch is shared by every caller of path, so it must not die with
	// the first caller's context.
	results := c.flight.DoChan(path, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
		defer cancel()

		raw, reqErr := c.executeGet(sharedCtx, path)
		c.record(reqErr)
		return raw, reqErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		return c.classify(res.Err)
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode club backend payload: %w", err)
	}
	return nil
}

func (c *Client) executeGet(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.do(ctx, http.MethodGet, path, nil)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errSOMSTransient) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "club backend request failed", "path", path, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Wrapf(errSOMSTransient, "send request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Wrapf(errSOMSTransient, "read response body: %v", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	detail := errorDetail(raw)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, detail)
	case isRetryableStatus(resp.StatusCode):
		return nil, crerr.Wrapf(errSOMSTransient, "status=%d detail=%s", resp.StatusCode, detail)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: club backend rejected request status=%d detail=%s", usecase.ErrInvalidInput, resp.StatusCode, detail)
	default:
		return nil, fmt.Errorf("club backend status=%d detail=%s", resp.StatusCode, detail)
	}
}

func (c *Client) allow(ctx context.Context) error {
	if !c.circuitEnabled {
		return nil
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "club backend circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: club backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (c *Client) record(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) classify(err error) error {
	if crerr.Is(err, errSOMSTransient) {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func isCircuitFailure(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errSOMSTransient) || stderrors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func errorDetail(raw []byte) string {
	var envelope errorEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err == nil && envelope.Detail != nil {
		if s, ok := envelope.Detail.(string); ok {
			return s
		}
		if encoded, err := sonic.MarshalString(envelope.Detail); err == nil {
			return encoded
		}
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 256 {
		text = text[:256] + "..."
	}
	return text
}
