package outbound

import (
	"context"
	"errors"
)

// Notifier fans data-object changes out to a fixed list of targets.
type Notifier struct {
	targets []*Target
}

// NewNotifier returns a Notifier over targets, which are tried in order.
func NewNotifier(targets ...*Target) *Notifier {
	return &Notifier{targets: targets}
}

// Targets returns the targets in notification order.
func (n *Notifier) Targets() []*Target {
	return n.targets
}

// Connect makes one eager connection attempt per configured target.
// Failures are logged by the targets and joined into the returned error.
func (n *Notifier) Connect(ctx context.Context) error {
	var errs []error
	for _, t := range n.targets {
		if err := t.Connect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notify sends value for name to every target.
//
// Every target is attempted regardless of earlier failures. The returned
// error joins the individual failures, each of which has already been
// logged; callers are free to ignore it.
func (n *Notifier) Notify(ctx context.Context, name, value string) error {
	var errs []error
	for _, t := range n.targets {
		if err := t.Send(ctx, name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HealthCheck returns the health of each configured target keyed by name.
func (n *Notifier) HealthCheck(ctx context.Context) map[string]error {
	result := make(map[string]error, len(n.targets))
	for _, t := range n.targets {
		if !t.IsConfigured() {
			continue
		}
		result[t.Name()] = t.HealthCheck(ctx)
	}
	return result
}

// Close closes every target.
func (n *Notifier) Close() error {
	var errs []error
	for _, t := range n.targets {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
