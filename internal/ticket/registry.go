package ticket

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/k1networth/servicedesk-cli/internal/shared/actor"
	"github.com/k1networth/servicedesk-cli/internal/shared/events"
)

const (
	EventCreated       = "ticket.created"
	EventStatusChanged = "ticket.status_changed"
)

type Options struct {
	Statuses      StatusSet
	InitialStatus string

	// Now defaults to time.Now.
	Now     func() time.Time
	Log     *slog.Logger
	Metrics *Metrics
	Events  events.Sink
}

// Registry owns every ticket of a session. Methods are safe to call from
// several goroutines; mutations are serialized.
type Registry struct {
	mu      sync.RWMutex
	tickets []Ticket
	nextID  int

	statuses StatusSet
	initial  string
	now      func() time.Time
	log      *slog.Logger
	metrics  *Metrics
	events   events.Sink
}

func NewRegistry(opts Options) (*Registry, error) {
	statuses := opts.Statuses
	if statuses.Len() == 0 {
		statuses = NewStatusSet(DefaultStatuses...)
	}

	initial := NormalizeStatus(opts.InitialStatus)
	if initial == "" {
		initial = DefaultInitialStatus
	}
	if !statuses.Contains(initial) {
		return nil, fmt.Errorf("initial status %q is not one of the valid statuses", initial)
	}

	r := &Registry{
		nextID:   1,
		statuses: statuses,
		initial:  initial,
		now:      opts.Now,
		log:      opts.Log,
		metrics:  opts.Metrics,
		events:   opts.Events,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

func (r *Registry) Statuses() StatusSet { return r.statuses }

func (r *Registry) InitialStatus() string { return r.initial }

func (r *Registry) Create(ctx context.Context, req CreateTicketRequest) (Ticket, error) {
	req = req.Normalize()

	if err := req.Validate(); err != nil {
		r.metrics.rejected("create", "missing_field")
		return Ticket{}, err
	}

	date, err := ValidateDate(req.Date, r.now())
	if err != nil {
		var de *DateError
		if errors.As(err, &de) {
			r.metrics.rejected("create", "date_"+string(de.Reason))
		}
		return Ticket{}, err
	}

	r.mu.Lock()
	t := Ticket{
		ID:          r.nextID,
		Title:       req.Title,
		Description: req.Description,
		Requester:   req.Requester,
		Date:        date,
		Status:      r.initial,
	}
	r.tickets = append(r.tickets, t)
	r.nextID++
	r.mu.Unlock()

	r.metrics.created(t.Status)
	r.log.InfoContext(ctx, "ticket_created",
		slog.Int("id", t.ID),
		slog.String("requester", t.Requester),
		slog.String("actor", actor.Get(ctx)),
	)
	r.publish(ctx, EventCreated, t.ID, t)

	return t, nil
}

// List yields a snapshot of the tickets in creation order, taken each time
// the sequence is ranged over.
func (r *Registry) List(ctx context.Context) iter.Seq[Ticket] {
	_ = ctx

	return func(yield func(Ticket) bool) {
		r.mu.RLock()
		snapshot := make([]Ticket, len(r.tickets))
		copy(snapshot, r.tickets)
		r.mu.RUnlock()

		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}

type statusChange struct {
	ID   int    `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *Registry) ChangeStatus(ctx context.Context, id int, status string) (Ticket, error) {
	status = NormalizeStatus(status)
	if !r.statuses.Contains(status) {
		r.metrics.rejected("change_status", "invalid_status")
		return Ticket{}, &InvalidStatusError{Status: status, Valid: r.statuses.Values()}
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		r.metrics.rejected("change_status", "not_found")
		return Ticket{}, ErrNotFound
	}
	prev := r.tickets[i].Status
	r.tickets[i].Status = status
	t := r.tickets[i]
	r.mu.Unlock()

	r.metrics.statusChanged(prev, status)
	r.log.InfoContext(ctx, "ticket_status_changed",
		slog.Int("id", id),
		slog.String("from", prev),
		slog.String("to", status),
		slog.String("actor", actor.Get(ctx)),
	)
	r.publish(ctx, EventStatusChanged, id, statusChange{ID: id, From: prev, To: status})

	return t, nil
}

func (r *Registry) FindByID(ctx context.Context, id int) (Ticket, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.tickets[i], nil
	}
	return Ticket{}, ErrNotFound
}

// indexOf must be called with r.mu held.
func (r *Registry) indexOf(id int) int {
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) publish(ctx context.Context, eventType string, id int, payload any) {
	if r.events == nil {
		return
	}

	env, err := events.NewEnvelope(eventType, "ticket", strconv.Itoa(id), r.now(), payload)
	if err != nil {
		r.log.ErrorContext(ctx, "ticket_event_encode_failed", slog.String("err", err.Error()))
		return
	}
	env.Actor = actor.Get(ctx)

	if err := r.events.Publish(ctx, env); err != nil {
		r.log.WarnContext(ctx, "ticket_event_publish_failed",
			slog.String("event_type", eventType),
			slog.String("err", err.Error()),
		)
	}
}
