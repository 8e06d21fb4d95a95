package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Sink receives envelopes after the change they describe is applied.
type Sink interface {
	Publish(ctx context.Context, e Envelope) error
}

// LogSink writes each envelope as a structured log line.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, e Envelope) error {
	s.Log.InfoContext(ctx, "ticket_event",
		slog.String("event_id", e.EventID),
		slog.String("event_type", e.EventType),
		slog.String("aggregate_id", e.AggregateID),
		slog.String("actor", e.Actor),
		slog.String("payload", string(e.Payload)),
	)
	return nil
}

// Recorder keeps the most recent envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	max    int
	events []Envelope
	counts map[string]int
}

// NewRecorder keeps at most max envelopes; max <= 0 means 256.
func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = 256
	}
	return &Recorder{max: max, counts: make(map[string]int)}
}

func (r *Recorder) Publish(ctx context.Context, e Envelope) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == r.max {
		r.events = append(r.events[:0], r.events[1:]...)
	}
	r.events = append(r.events, e)
	r.counts[e.EventType]++
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

// Counts returns the number of envelopes seen per event type, including
// ones already evicted.
func (r *Recorder) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

type multiSink []Sink

// Multi publishes to every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Publish(ctx context.Context, e Envelope) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
