package api

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
	"github.com/rs/zerolog"
)

// Doer is the subset of *http.Client the transport needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	http    Doer
	log     zerolog.Logger
}

type Option func(*Client)

func WithDoer(d Doer) Option { return func(c *Client) { c.http = d } }

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithTimeout sets the http.Client timeout. Zero keeps the library default (no timeout).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Envelope is the wrapper every endpoint answers with.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`

	kind error
}

// Err returns nil for a successful envelope and a *Failure otherwise.
func (e *Envelope) Err() error {
	if e.Success {
		return nil
	}
	kind := e.kind
	if kind == nil {
		kind = ErrApplication
	}
	return &Failure{Kind: kind, Message: e.Error}
}

// Decode unmarshals the payload of a successful envelope into out.
func (e *Envelope) Decode(out any) error {
	if err := e.Err(); err != nil {
		return err
	}
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return &Failure{Kind: ErrMalformed, Message: "empty data"}
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return &Failure{Kind: ErrMalformed, Message: err.Error()}
	}
	return nil
}

func failed(kind error, format string, args ...any) *Envelope {
	return &Envelope{Success: false, Error: fmt.Sprintf(format, args...), kind: kind}
}

// Request issues one call and always returns an envelope; transport problems and non-2xx
// answers are folded into a failure envelope.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) *Envelope {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return failed(ErrTransport, "encode body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return failed(ErrTransport, "build request: %v", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("request failed")
		return failed(ErrTransport, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Dur("took", time.Since(start)).
		Msg("request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(ErrTransport, "read body: %v", err)
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 300 {
		msg := resp.Status
		if decodeErr == nil && env.Error != "" {
			msg = env.Error
		}
		return failed(ErrApplication, "%s", msg)
	}
	if decodeErr != nil {
		return failed(ErrMalformed, "decode envelope: %v", decodeErr)
	}
	if !env.Success {
		env.kind = ErrApplication
		if env.Error == "" {
			env.Error = "request was not successful"
		}
	}
	return &env
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) *Envelope {
	return c.Request(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Put(ctx context.Context, path string, body any) *Envelope {
	return c.Request(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Post(ctx context.Context, path string, body any) *Envelope {
	return c.Request(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) *Envelope {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// IsTransport reports whether err came from the network rather than from the API.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
