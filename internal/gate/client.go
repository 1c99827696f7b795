package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrTimeout reports that the bounded client timeout elapsed before a
// response arrived. Distinct from a generic network failure so the error
// screen can say so.
var ErrTimeout = errors.New("gate: request timed out")

// ErrSuperseded reports that a newer evaluation for the same screen
// cancelled this one. The superseded caller discards the result and applies
// nothing.
var ErrSuperseded = errors.New("gate: evaluation superseded")

// envelope mirrors the server's uniform response shape.
type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	TraceID string `json:"trace_id"`
}

// Client calls the provisioning API and normalizes responses into gate
// Results. Every call has a bounded timeout, and at most one evaluation per
// screen is in flight: a newer one cancels its predecessor rather than
// racing it for the store.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	inflight map[string]*evaluation
}

type evaluation struct {
	cancel context.CancelFunc
}

// NewClient creates a gate client. The timeout bounds every evaluation.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		inflight:   make(map[string]*evaluation),
	}
}

// Evaluate performs one gate API call for a screen and returns the
// normalized Result plus the raw payload for the screen to decode. A second
// Evaluate for the same screen supersedes the first: the earlier call
// returns ErrSuperseded and must not write any state.
func (c *Client) Evaluate(
	ctx context.Context,
	screen, method, path, credential string,
	body any,
) (Result, json.RawMessage, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	eval := &evaluation{cancel: cancel}
	c.supersede(screen, eval)
	defer c.finish(screen, eval)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, nil, fmt.Errorf("gate: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{}, nil, fmt.Errorf("gate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.classify(parent, ctx, err)
		if errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled) {
			return Result{}, nil, err
		}
		return Result{Err: err}, nil, nil
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		return Result{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("gate: decode envelope: %w", decodeErr),
		}, nil, nil
	}

	result := Result{
		OK:      env.OK && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		TraceID: env.TraceID,
	}
	if env.Error != nil {
		result.Code = env.Error.Code
		result.Message = env.Error.Message
	}
	return result, env.Data, nil
}

// supersede cancels any in-flight evaluation for the screen and registers
// this one.
func (c *Client) supersede(screen string, eval *evaluation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if previous, ok := c.inflight[screen]; ok {
		previous.cancel()
	}
	c.inflight[screen] = eval
}

// finish clears the registration, but only while it still belongs to this
// evaluation; a successor may already have replaced it.
func (c *Client) finish(screen string, eval *evaluation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[screen] == eval {
		delete(c.inflight, screen)
	}
	eval.cancel()
}

// classify separates the ways a request can fail: superseded by a newer
// evaluation, cancelled by the caller, timed out against the bounded
// deadline, or a generic network failure. Only the supersede path cancels
// the child context while the parent is still alive; a dead parent means the
// caller itself went away.
func (c *Client) classify(parent, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		if parentErr := parent.Err(); parentErr != nil {
			return parentErr
		}
		return ErrSuperseded
	}

	var netErr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}
	return err
}
