package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"recommender/internal/logger"
)

const (
	DefaultTimeout = 5000 * time.Millisecond

	maxResponseBytes = 1 << 20
	maxErrorSnippet  = 256
)

// EventSender delivers a single event and reports why it failed, if it did.
type EventSender interface {
	Deliver(ctx context.Context, payload Payload, tag Tag, timeout time.Duration) error
}

// Forwarder posts storefront events to the recommendation API. It holds no mutable
// state after New returns and is safe for concurrent use.
type Forwarder struct {
	baseURL        string
	creds          Credentials
	httpClient     *http.Client
	observers      Observers
	defaultTimeout time.Duration
}

type Option func(*Forwarder)

// WithHTTPClient replaces the transport. Requests still ask for the connection to be
// closed after each call.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Forwarder) {
		f.httpClient = client
	}
}

func WithObserver(observer Observer) Option {
	return func(f *Forwarder) {
		f.observers = append(f.observers, observer)
	}
}

func WithLogger(logger *logger.Logger) Option {
	return WithObserver(NewLogObserver(logger))
}

func WithDefaultTimeout(timeout time.Duration) Option {
	return func(f *Forwarder) {
		if timeout > 0 {
			f.defaultTimeout = timeout
		}
	}
}

func New(baseURL string, creds Credentials, opts ...Option) (*Forwarder, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, newError(KindConfiguration, "", ErrMissingBaseURL)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, newError(KindConfiguration, "", errors.Wrap(err, "invalid api url"))
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, newError(KindConfiguration, "", errors.Errorf("invalid api url %q", baseURL))
	}

	if err := creds.Validate(); err != nil {
		return nil, newError(KindConfiguration, "", err)
	}

	f := &Forwarder{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		defaultTimeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// URL resolves the destination for tag.
func (f *Forwarder) URL(tag Tag) (string, error) {
	suffix, err := tag.suffix()
	if err != nil {
		return "", err
	}
	return f.baseURL + suffix, nil
}

// Send reports whether the event was delivered. Use Deliver to learn why it was not.
func (f *Forwarder) Send(ctx context.Context, payload Payload, tag Tag, timeout time.Duration) bool {
	return f.Deliver(ctx, payload, tag, timeout) == nil
}

// Deliver posts payload to the endpoint for tag. A timeout <= 0 uses the forwarder's
// default. The returned error, if any, is an *Error.
func (f *Forwarder) Deliver(ctx context.Context, payload Payload, tag Tag, timeout time.Duration) (err error) {
	outcome := Outcome{
		ID:  uuid.New().String(),
		Tag: tag,
	}
	start := time.Now()
	defer func() {
		outcome.Duration = time.Since(start)
		outcome.Err = err
		outcome.Kind = KindOf(err)
		f.observers.Observe(ctx, outcome)
	}()

	if _, ok := UserFromContext(ctx); !ok {
		return newError(KindPrecondition, tag, ErrUnauthenticated)
	}

	target, err := f.URL(tag)
	if err != nil {
		return newError(KindPrecondition, tag, err)
	}
	outcome.URL = target

	body, err := json.Marshal(payload)
	if err != nil {
		return newError(KindSerialization, tag, errors.Wrap(err, "failed to marshal payload"))
	}

	if timeout <= 0 {
		timeout = f.defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return newError(KindConfiguration, tag, errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.ContentLength = int64(len(body))
	req.SetBasicAuth(f.creds.ShopID, f.creds.APIKey)
	req.Close = true

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return newError(KindTransport, tag, errors.Wrap(err, "failed to make request"))
	}
	defer resp.Body.Close()
	outcome.StatusCode = resp.StatusCode

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		e := newError(KindTransport, tag, errors.Wrap(err, "failed to read response"))
		e.StatusCode = resp.StatusCode
		return e
	}

	return checkResponse(tag, resp.StatusCode, respBody)
}

// Ping checks that the recommendation API answers at its base URL. Any response below
// 500 counts as online.
func (f *Forwarder) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
	if err != nil {
		return newError(KindConfiguration, "", errors.Wrap(err, "failed to create request"))
	}
	req.SetBasicAuth(f.creds.ShopID, f.creds.APIKey)
	req.Close = true

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return newError(KindTransport, "", errors.Wrap(err, "failed to make request"))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		e := newError(KindTransport, "", errors.Errorf("API unavailable: %d", resp.StatusCode))
		e.StatusCode = resp.StatusCode
		return e
	}
	return nil
}

func checkResponse(tag Tag, status int, body []byte) error {
	if msg, ok := remoteError(body); ok {
		e := newError(KindRemote, tag, errors.Errorf("API returned error: %s", msg))
		e.StatusCode = status
		return e
	}

	if status < 200 || status > 299 {
		e := newError(KindTransport, tag, errors.Errorf("API request failed: %d - %s", status, snippet(body)))
		e.StatusCode = status
		return e
	}

	return nil
}

// remoteError extracts a non-null top level "error" field from a JSON object body.
func remoteError(body []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}

	raw, ok := fields["error"]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return "", false
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return string(raw), true
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		cut := maxErrorSnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
