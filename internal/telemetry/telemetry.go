// Package telemetry reports workflow outcomes to an HTTP collector. Sending
// is best effort: it never blocks a workflow and never fails it.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/user"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yaegashi/jupyterops/internal/logging"
)

// Event is one tracked outcome, e.g. "AWS Destroy" with Success or Error set.
type Event struct {
	ID      string    `json:"id"`
	Event   string    `json:"event"`
	Success bool      `json:"success,omitempty"`
	Error   string    `json:"error,omitempty"`
	User    string    `json:"user"`
	OS      string    `json:"os"`
	Time    time.Time `json:"time"`
}

// Tracker records events.
//
//go:generate mockgen -destination=telemetrymock/tracker.go -package=telemetrymock . Tracker
type Tracker interface {
	Track(ctx context.Context, ev Event)
	// Flush waits for pending sends until ctx is done.
	Flush(ctx context.Context)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Track(context.Context, Event) {}
func (Nop) Flush(context.Context)        {}

// HTTPTracker POSTs events as JSON to Endpoint.
type HTTPTracker struct {
	endpoint   string
	httpClient *http.Client
	user       string
	os         string
	now        func() time.Time
	wg         sync.WaitGroup
}

// Option configures an HTTPTracker.
type Option func(*HTTPTracker)

// WithHTTPClient sets the HTTP client used for sending.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTracker) { t.httpClient = c }
}

// WithUser overrides the user name attached to events.
func WithUser(name string) Option {
	return func(t *HTTPTracker) { t.user = name }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *HTTPTracker) { t.now = now }
}

// New returns a Tracker for endpoint, or Nop when endpoint is empty.
func New(endpoint string, opts ...Option) Tracker {
	if endpoint == "" {
		return Nop{}
	}
	return NewHTTPTracker(endpoint, opts...)
}

// NewHTTPTracker returns an HTTPTracker for endpoint.
func NewHTTPTracker(endpoint string, opts ...Option) *HTTPTracker {
	t := &HTTPTracker{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		user:       currentUser(),
		os:         runtime.GOOS,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track fills in the event metadata and sends it in the background.
func (t *HTTPTracker) Track(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.User == "" {
		ev.User = t.user
	}
	if ev.OS == "" {
		ev.OS = t.os
	}
	if ev.Time.IsZero() {
		ev.Time = t.now().UTC()
	}
	sendCtx := context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.send(sendCtx, ev); err != nil {
			logging.FromContext(ctx).Debug(ctx, "telemetry send failed", "event", ev.Event, "error", err.Error())
		}
	}()
}

// Flush waits for in-flight events or until ctx is done.
func (t *HTTPTracker) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (t *HTTPTracker) send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
