package outbound

import (
	"context"
	"fmt"
	"sync"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/logging"
)

// Sender pushes one named value to a downstream system.
type Sender interface {
	Send(ctx context.Context, name, value string) error
	Close() error
}

// HealthChecker is implemented by senders that can verify their connection.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dialer opens a connection and returns the Sender bound to it.
type Dialer func(ctx context.Context) (Sender, error)

// Option configures a Target.
type Option func(*Target)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Target) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(t *Target) {
		t.metrics = m
	}
}

// WithDescription sets the human-readable target description used in logs.
func WithDescription(desc string) Option {
	return func(t *Target) {
		t.description = desc
	}
}

// Target is one lazily connected downstream system.
type Target struct {
	name        string
	description string
	configured  bool
	dial        Dialer
	logger      *logging.Logger
	metrics     *Metrics

	// dialMu serialises dials; mu guards sender only, so readers never
	// wait behind a slow connect.
	dialMu sync.Mutex
	mu     sync.Mutex
	sender Sender
}

// NewTarget returns a Target. When configured is false every send is a
// no-op and dial is never called.
func NewTarget(name string, configured bool, dial Dialer, opts ...Option) *Target {
	t := &Target{
		name:        name,
		description: name,
		configured:  configured && dial != nil,
		dial:        dial,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the short target name used as the metrics label.
func (t *Target) Name() string {
	return t.name
}

// IsConfigured reports whether the target takes part in notifications.
func (t *Target) IsConfigured() bool {
	return t.configured
}

// IsConnected reports whether the target holds a connection handle.
func (t *Target) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sender != nil
}

// Connect dials the target if it is configured and not yet connected.
// Failures are logged and returned; the target stays not connected.
func (t *Target) Connect(ctx context.Context) error {
	if !t.configured {
		return nil
	}
	_, err := t.connect(ctx)
	return err
}

func (t *Target) current() Sender {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sender
}

// connect returns the connection handle, dialing when there is none.
// Concurrent callers share one dial.
func (t *Target) connect(ctx context.Context) (Sender, error) {
	if s := t.current(); s != nil {
		return s, nil
	}

	t.dialMu.Lock()
	defer t.dialMu.Unlock()

	if s := t.current(); s != nil {
		return s, nil
	}

	s, err := t.dialOnce(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.sender = s
	t.mu.Unlock()
	return s, nil
}

func (t *Target) dialOnce(ctx context.Context) (sender Sender, err error) {
	defer func() {
		if r := recover(); r != nil {
			sender = nil
			err = fmt.Errorf("%w: %s: connect panicked: %v", ErrNotConnected, t.name, r)
		}
		if err != nil {
			t.logger.Error("error connecting to "+t.description, "target", t.name, "error", err)
		}
		t.metrics.incConnect(t.name, err == nil)
		t.metrics.setConnected(t.name, err == nil)
	}()

	t.logger.Debug("connecting to "+t.description, "target", t.name)
	s, err := t.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotConnected, t.name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s: dialer returned no connection", ErrNotConnected, t.name)
	}

	t.logger.Debug("connected to "+t.description, "target", t.name)
	return s, nil
}

// Send pushes value to the data object name.
//
// Unconfigured targets return nil without doing anything. A configured
// target dials first when not connected. The outcome is logged (info on
// success, error on failure) and failures are also returned. Panics in the
// dialer or sender are recovered into ErrSendFailed.
func (t *Target) Send(ctx context.Context, name, value string) (err error) {
	if !t.configured {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrSendFailed, t.name, r)
			t.logger.Error(t.description+" update error", "target", t.name, "data_object", name, "error", err)
			t.metrics.incSend(t.name, false)
		}
	}()

	t.logger.Debug("sending out value to "+t.description, "target", t.name, "data_object", name)

	sender, err := t.connect(ctx)
	if err != nil {
		t.metrics.incSend(t.name, false)
		return err
	}

	// The handle is kept on failure; only a failed dial leaves the target disconnected.
	if err := sender.Send(ctx, name, value); err != nil {
		t.logger.Error(t.description+" update error", "target", t.name, "data_object", name, "error", err)
		t.metrics.incSend(t.name, false)
		return fmt.Errorf("%w: %s: %w", ErrSendFailed, t.name, err)
	}

	t.logger.Info(t.description+" data object updated", "target", t.name, "data_object", name, "value", value)
	t.metrics.incSend(t.name, true)
	return nil
}

// HealthCheck reports ErrNotConfigured, ErrNotConnected or the sender's own
// health check result.
func (t *Target) HealthCheck(ctx context.Context) error {
	if !t.configured {
		return ErrNotConfigured
	}

	sender := t.current()
	if sender == nil {
		return ErrNotConnected
	}
	if hc, ok := sender.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Close releases the connection. A dial in progress is allowed to finish
// first so its handle is closed too. The target may connect again afterwards.
func (t *Target) Close() error {
	t.dialMu.Lock()
	defer t.dialMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sender == nil {
		return nil
	}
	err := t.sender.Close()
	t.sender = nil
	t.metrics.setConnected(t.name, false)
	if err != nil {
		return fmt.Errorf("closing %s: %w", t.name, err)
	}
	return nil
}
