package salonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"salon/timeline/internal/store"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer credential. Token lifecycle
// (login, refresh, storage) belongs to the auth collaborator, not here.
type TokenSource func() string

type Config struct {
	BaseURL string
	Token   TokenSource
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client implements store.ScheduleSource and store.ClientSource over the
// salon backend's REST surface. Every response uses the
// {success, message, data} envelope.
type Client struct {
	base  *url.URL
	token TokenSource
	http  *http.Client
	log   *slog.Logger
}

var (
	_ store.ScheduleSource = (*Client)(nil)
	_ store.ClientSource   = (*Client)(nil)
)

func New(cfg Config, log *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	if log == nil {
		log = slog.Default()
	}

	return &Client{
		base:  base,
		token: cfg.Token,
		http:  httpClient,
		log:   log.With(slog.String("component", "salonapi")),
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &store.FetchError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, &store.FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &store.FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", op, store.ErrAuth)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &store.FetchError{Op: op, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &store.FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &env, nil
}

// get performs a read; an unsuccessful envelope is a fetch failure.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	env, err := c.call(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return &store.FetchError{Op: op, Err: errors.New(env.Message)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &store.FetchError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

// mutate performs a write; an unsuccessful envelope carries the server's
// rejection message verbatim.
func (c *Client) mutate(ctx context.Context, op, method, path string, query url.Values, body any) error {
	env, err := c.call(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if !env.Success {
		return &store.MutationRejected{Op: op, Message: env.Message}
	}
	return nil
}

// kopecksFromNumber converts a decimal JSON amount (rubles) to integer
// kopecks without going through float64.
func kopecksFromNumber(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, nil
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	rubles, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if rubles < 0 {
		return rubles*100 - frac, nil
	}
	return rubles*100 + frac, nil
}
