// Package notify delivers run summaries to outbound sinks. Delivery is
// best-effort: a failed notification is logged and never fails the run
// that produced it.
package notify

import (
	"context"
	"log"
)

// Notifier delivers one human-readable summary message.
type Notifier interface {
	// Name identifies the sink in logs.
	Name() string

	// Send delivers the message. Errors are informational; callers log
	// them and move on.
	Send(ctx context.Context, text string) error
}

// Multi fans a message out to several sinks, swallowing per-sink failures.
type Multi struct {
	sinks []Notifier
}

// NewMulti builds a fanout over the given sinks. Nil sinks are skipped.
func NewMulti(sinks ...Notifier) *Multi {
	out := make([]Notifier, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Multi{sinks: out}
}

// Name returns the fanout's name.
func (m *Multi) Name() string {
	return "multi"
}

// Len returns the number of configured sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Send delivers to every sink. Failures are logged per sink; the return
// is always nil so the fanout itself can never fail a run.
func (m *Multi) Send(ctx context.Context, text string) error {
	for _, s := range m.sinks {
		if err := s.Send(ctx, text); err != nil {
			log.Printf("notification via %s failed: %v", s.Name(), err)
		}
	}
	return nil
}
