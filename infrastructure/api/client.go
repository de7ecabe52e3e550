package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/qualens/qualens/infrastructure/cache"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SessionSource supplies bearer tokens and handles forced sign-out. The
// auth service implements it; tests use stubs.
type SessionSource interface {
	// AccessToken returns a fresh token, refreshing proactively when the
	// current one is close to expiry.
	AccessToken(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// RetryPolicy is the one place retry behavior lives. The default performs
// no retries; the batch path configures its one-shot 401 retry through the
// same mechanism.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(status int, err error) bool
}

// Config wires a Client. Everything is injected: no package-level cache,
// no global in-flight map, no ambient session.
type Config struct {
	BaseURL string
	Timeout time.Duration

	Session SessionSource
	Cache   *cache.ResponseCache

	// RateLimit in requests/second; 0 disables client-side limiting.
	RateLimit float64
	RateBurst int

	Retry RetryPolicy

	// OnSignOut runs exactly once per authenticated period when a 401
	// forces sign-out (the CLI prints a login hint, the gateway notifies
	// websocket clients).
	OnSignOut func()

	Metrics *Metrics

	// Batch401Delay is the pause before the single batch retry on 401.
	Batch401Delay time.Duration

	// HTTPClient is swappable for tests; defaults to a plain client
	// (timeouts are enforced per call via context).
	HTTPClient *http.Client
}

// Client is the authenticated request dispatcher: cache short-circuit for
// GETs, bearer attachment, timeout, supersede-on-reuse cancellation and
// uniform error classification.
type Client struct {
	baseURL   string
	http      *http.Client
	cache     *cache.ResponseCache
	lifecycle *lifecycleManager
	session   SessionSource
	limiter   *rate.Limiter
	retry     RetryPolicy
	timeout   time.Duration
	onSignOut func()
	metrics   *Metrics

	batch401Delay time.Duration

	signOutMu sync.Mutex
	signedOut bool
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	delay := cfg.Batch401Delay
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		http:          httpClient,
		cache:         cfg.Cache,
		lifecycle:     newLifecycleManager(),
		session:       cfg.Session,
		limiter:       limiter,
		retry:         cfg.Retry,
		timeout:       timeout,
		onSignOut:     cfg.OnSignOut,
		metrics:       cfg.Metrics,
		batch401Delay: delay,
	}
}

// Do performs one call and returns the decoded payload. Per request id the
// state machine is idle -> in-flight -> {succeeded, failed, cancelled} ->
// released; starting a new call with the same id cancels its predecessor.
func (c *Client) Do(ctx context.Context, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	cacheable := method == http.MethodGet && opts.CacheKey != "" && c.cache != nil
	if cacheable && !opts.ForceRefresh {
		if v, ok := c.cache.Get(opts.CacheKey); ok {
			c.metrics.cacheHit()
			return v, nil
		}
		c.metrics.cacheMiss()
	}

	id := opts.RequestID
	if id == "" {
		id = method + " " + opts.Path
	}
	reqCtx, handle := c.lifecycle.Begin(ctx, id)
	defer c.lifecycle.Complete(id, handle)

	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var payload json.RawMessage
	var status int
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-reqCtx.Done():
				return nil, c.classifyContext(reqCtx, nil)
			case <-time.After(c.retry.Backoff):
			}
		}
		payload, status, err = c.roundTrip(reqCtx, method, opts, true)
		if err == nil || c.retry.Retryable == nil || !c.retry.Retryable(status, err) {
			break
		}
	}
	if err != nil {
		c.metrics.observe(method, outcomeOf(err))
		return nil, err
	}

	// A superseded request must never publish its result: no cache write
	// and a cancelled outcome for its caller.
	if cause := context.Cause(reqCtx); cause != nil {
		c.metrics.observe(method, "cancelled")
		return nil, c.classifyContext(reqCtx, nil)
	}

	if cacheable {
		c.cache.Set(opts.CacheKey, payload, opts.TTL)
	}
	if c.cache != nil {
		for _, prefix := range opts.Invalidate {
			c.cache.InvalidatePrefix(prefix)
		}
	}

	c.metrics.observe(method, "success")
	return payload, nil
}

// GetJSON runs Do and unmarshals the payload into out.
func (c *Client) GetJSON(ctx context.Context, opts RequestOptions, out any) error {
	payload, err := c.Do(ctx, opts)
	if err != nil {
		return err
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s: %w", opts.Path, err)
	}
	return nil
}

// CancelAll cancels outstanding requests, optionally filtered by id prefix.
func (c *Client) CancelAll(prefix string) {
	c.lifecycle.CancelAll(prefix)
}

// Cache exposes the response cache for the gateway's stats endpoints.
func (c *Client) Cache() *cache.ResponseCache {
	return c.cache
}

// RearmSignOut re-enables the forced sign-out guard; the auth layer calls
// it after a successful sign-in.
func (c *Client) RearmSignOut() {
	c.signOutMu.Lock()
	c.signedOut = false
	c.signOutMu.Unlock()
}

func (c *Client) roundTrip(ctx context.Context, method string, opts RequestOptions, signOutOn401 bool) (json.RawMessage, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, c.classifyContext(ctx, err)
		}
	}

	var token string
	if c.session != nil {
		t, err := c.session.AccessToken(ctx)
		if err != nil {
			return nil, 0, pkgError.UnauthorizedError(fmt.Sprintf("no usable session: %v", err))
		}
		token = t
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s body: %w", opts.Path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL + opts.Path
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(callCtx, method, u, bodyReader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, c.classifyTransport(ctx, callCtx, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, c.classifyTransport(ctx, callCtx, err)
	}

	return c.classifyResponse(ctx, method, opts.Path, res.StatusCode, body, signOutOn401)
}

func (c *Client) classifyResponse(ctx context.Context, method, path string, status int, body []byte, signOutOn401 bool) (json.RawMessage, int, error) {
	payload, _, apiErr := decodeEnvelope(body)

	message := ""
	if apiErr != nil {
		message = apiErr.Message
	}

	switch {
	case status >= 200 && status < 300:
		if apiErr != nil {
			// Envelope error on a 2xx: the backend signals a partial
			// or logical failure; surface the server message.
			return nil, status, pkgError.ValidationError(apiErr.Error())
		}
		return payload, status, nil

	case status == http.StatusUnauthorized:
		if signOutOn401 {
			c.forceSignOut(ctx)
		}
		if message == "" {
			message = "session expired or invalid"
		}
		return nil, status, pkgError.UnauthorizedError(message)

	case status == http.StatusForbidden:
		logrus.Warnf("[API] %s %s forbidden", method, path)
		if message == "" {
			message = "you do not have permission to access this resource"
		}
		return nil, status, pkgError.ForbiddenError(message)

	case status == http.StatusNotFound:
		if message == "" {
			message = fmt.Sprintf("%s not found", path)
		}
		return nil, status, pkgError.NotFoundError(message)

	case status >= 400 && status < 500:
		if message == "" {
			message = fmt.Sprintf("request rejected with status %d", status)
		}
		return nil, status, pkgError.ValidationError(message)

	default:
		return nil, status, pkgError.ServerError{Status: status, Msg: message}
	}
}

// forceSignOut clears the session and fires the sign-out hook at most once
// per authenticated period, even under concurrent 401s.
func (c *Client) forceSignOut(ctx context.Context) {
	c.signOutMu.Lock()
	if c.signedOut {
		c.signOutMu.Unlock()
		return
	}
	c.signedOut = true
	c.signOutMu.Unlock()

	logrus.Info("[API] Received 401, forcing sign-out")
	if c.session != nil {
		if err := c.session.SignOut(context.WithoutCancel(ctx)); err != nil {
			logrus.Warnf("[API] Sign-out after 401 failed: %v", err)
		}
	}
	if c.onSignOut != nil {
		c.onSignOut()
	}
}

func (c *Client) classifyTransport(reqCtx, callCtx context.Context, err error) error {
	if classified := c.classifyContext(reqCtx, err); classified != nil {
		return classified
	}
	if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
		return pkgError.TimeoutError(fmt.Sprintf("request timed out after %s", c.timeout))
	}
	return pkgError.TimeoutError(fmt.Sprintf("network failure: %v", err))
}

// classifyContext maps context teardown to the benign cancelled kind.
func (c *Client) classifyContext(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		if errors.Is(cause, errSuperseded) {
			return pkgError.CancelledError("superseded by a newer request")
		}
		if errors.Is(cause, context.Canceled) {
			return pkgError.CancelledError("request cancelled")
		}
		if errors.Is(cause, context.DeadlineExceeded) {
			return pkgError.TimeoutError("request deadline exceeded")
		}
	}
	if err != nil && errors.Is(err, context.Canceled) {
		return pkgError.CancelledError("request cancelled")
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case pkgError.IsCancelled(err):
		return "cancelled"
	case pkgError.IsUnauthorized(err):
		return "unauthorized"
	case pkgError.IsTimeout(err):
		return "timeout"
	default:
		var ge pkgError.GenericError
		if errors.As(err, &ge) {
			switch ge.ErrCode() {
			case "FORBIDDEN_ERROR":
				return "forbidden"
			case "VALIDATION_ERROR":
				return "validation"
			case "NOT_FOUND_ERROR":
				return "not_found"
			case "SERVER_ERROR":
				return "server"
			}
		}
		return "error"
	}
}
