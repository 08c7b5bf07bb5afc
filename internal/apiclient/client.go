package apiclient

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

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource persists the session's token pair. session.Session satisfies it.
type TokenSource interface {
	Tokens(ctx context.Context) (contract.TokenPair, error)
	SaveTokens(ctx context.Context, pair contract.TokenPair) error
	ClearTokens(ctx context.Context) error
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	// RetryInterval is the first backoff delay. Defaults to 200ms.
	RetryInterval time.Duration
	Doer          Doer
	Tokens        TokenSource
}

func OptionsFromConfig(cfg config.Config, tokens TokenSource) Options {
	return Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		RetryCount: cfg.APIRetryCount,
		Tokens:     tokens,
	}
}

// refreshWindow is how close to expiry an access token is refreshed before use.
const refreshWindow = 30 * time.Second

const maxResponseBytes = 10 << 20

type Client struct {
	base          string
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
	doer          Doer
	tokens        TokenSource
	refreshes     singleflight.Group

	Auth            *AuthService
	Gyms            *GymService
	Walls           *WallService
	Routes          *RouteService
	Tags            *TagService
	Users           *UserService
	Payments        *PaymentService
	Climbs          *ClimbService
	Recommendations *RecommendationService
	Dashboard       *DashboardService
	Notifications   *NotificationService
}

func New(opts Options) *Client {
	c := &Client{
		base:          strings.TrimRight(opts.BaseURL, "/"),
		timeout:       opts.Timeout,
		retries:       max(opts.RetryCount, 0),
		retryInterval: opts.RetryInterval,
		doer:          opts.Doer,
		tokens:        opts.Tokens,
	}
	if c.base == "" {
		c.base = constants.DefaultAPIBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.retryInterval <= 0 {
		c.retryInterval = 200 * time.Millisecond
	}
	if c.doer == nil {
		c.doer = &http.Client{}
	}
	c.Auth = &AuthService{c}
	c.Gyms = &GymService{c}
	c.Walls = &WallService{c}
	c.Routes = &RouteService{c}
	c.Tags = &TagService{c}
	c.Users = &UserService{c}
	c.Payments = &PaymentService{c}
	c.Climbs = &ClimbService{c}
	c.Recommendations = &RecommendationService{c}
	c.Dashboard = &DashboardService{c}
	c.Notifications = &NotificationService{c}
	return c
}

// call describes one API operation. op labels metrics, e.g. "gyms.list".
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        any
	raw         []byte
	contentType string
	anonymous   bool
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	err := c.exchange(ctx, cl, out)
	observe(cl.op, err, time.Since(start))
	return err
}

func (c *Client) exchange(ctx context.Context, cl call, out any) error {
	payload, contentType, err := cl.encode()
	if err != nil {
		return err
	}

	var token string
	if !cl.anonymous {
		if token, err = c.accessToken(ctx); err != nil {
			return err
		}
	}
	err = c.send(ctx, cl, payload, contentType, token, out)
	if cl.anonymous || c.tokens == nil || !errors.Is(err, contract.ErrUnauthorized) {
		return err
	}

	// one refresh and replay
	token, rerr := c.refresh(ctx, token)
	if rerr != nil {
		return rerr
	}
	return c.send(ctx, cl, payload, contentType, token, out)
}

func (cl call) encode() ([]byte, string, error) {
	if cl.raw != nil {
		return cl.raw, cl.contentType, nil
	}
	if cl.body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(cl.body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", cl.op, err)
	}
	return b, "application/json", nil
}

func (c *Client) send(ctx context.Context, cl call, payload []byte, contentType, token string, out any) error {
	attempt := func() error {
		err := c.roundTrip(ctx, cl, payload, contentType, token, out)
		if err == nil || retryable(cl.method, err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx))
	if err == nil {
		return nil
	}
	var apiErr *contract.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &contract.APIError{Code: contract.CodeNetwork, Message: cl.op + " interrupted", Err: err}
}

// retryable: idempotent methods on transport failures, 429 and 5xx. POST never.
func retryable(method string, err error) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
	default:
		return false
	}
	var apiErr *contract.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == contract.CodeNetwork ||
		apiErr.Status == http.StatusTooManyRequests ||
		apiErr.Status >= 500
}

func (c *Client) roundTrip(ctx context.Context, cl call, payload []byte, contentType, token string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(constants.JWTHeader, constants.JWTPrefix+token)
	}
	req.Header.Set(constants.RequestIDHeader, uuid.NewString())

	resp, err := c.doer.Do(req)
	if err != nil {
		return &contract.APIError{Code: contract.CodeNetwork, Message: cl.op + " failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &contract.APIError{Status: resp.StatusCode, Code: contract.CodeNetwork, Message: "read response", Err: err}
	}
	return decodeEnvelope(resp.StatusCode, raw, out)
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"errorCode"`
}

func decodeEnvelope(status int, raw []byte, out any) error {
	if status == http.StatusNoContent || (len(bytes.TrimSpace(raw)) == 0 && status < 400) {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if status >= 400 {
			return &contract.APIError{Status: status, Code: contract.CodeForStatus(status), Message: http.StatusText(status)}
		}
		return &contract.APIError{Status: status, Code: contract.CodeServer, Message: "malformed response", Err: err}
	}
	if status >= 400 || !env.Success {
		return &contract.APIError{
			Status:     status,
			Code:       contract.NormalizeCode(env.ErrorCode, status),
			ServerCode: env.ErrorCode,
			Message:    env.Message,
		}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &contract.APIError{Status: status, Code: contract.CodeServer, Message: "unexpected data shape", Err: err}
	}
	return nil
}

// accessToken returns the stored access token, refreshing it first when it
// is about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	pair, err := c.tokens.Tokens(ctx)
	if err != nil {
		return "", fmt.Errorf("load tokens: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return pair.AccessToken, nil
	}
	claims, err := auth.Inspect(pair.AccessToken)
	if err == nil && claims.ExpiresWithin(refreshWindow) {
		return c.refresh(ctx, pair.AccessToken)
	}
	return pair.AccessToken, nil
}

// refresh exchanges the refresh token once for all concurrent callers.
// Callers holding a token that was already replaced get the new one.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		pair, err := c.tokens.Tokens(ctx)
		if err != nil {
			return "", fmt.Errorf("load tokens: %w", err)
		}
		if pair.AccessToken != "" && pair.AccessToken != stale {
			return pair.AccessToken, nil
		}
		if pair.RefreshToken == "" {
			return "", &contract.APIError{Status: http.StatusUnauthorized, Code: contract.CodeUnauthorized, Message: "not logged in"}
		}
		res, err := c.Auth.Refresh(ctx, pair.RefreshToken)
		if err != nil {
			_ = c.tokens.ClearTokens(ctx)
			return "", &contract.APIError{Status: http.StatusUnauthorized, Code: contract.CodeUnauthorized, Message: "session expired", Err: err}
		}
		next := res.Tokens()
		if next.RefreshToken == "" {
			next.RefreshToken = pair.RefreshToken
		}
		if err := c.tokens.SaveTokens(ctx, next); err != nil {
			return "", fmt.Errorf("save tokens: %w", err)
		}
		return next.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
