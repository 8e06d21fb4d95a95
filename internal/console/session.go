package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/k1networth/servicedesk-cli/internal/auth"
	"github.com/k1networth/servicedesk-cli/internal/shared/actor"
	"github.com/k1networth/servicedesk-cli/internal/ticket"
)

var (
	ErrAccessDenied      = errors.New("access denied")
	ErrAttemptsExhausted = errors.New("too many attempts")
)

// Tracker is the ticket registry as seen by the menu.
type Tracker interface {
	Create(ctx context.Context, req ticket.CreateTicketRequest) (ticket.Ticket, error)
	List(ctx context.Context) iter.Seq[ticket.Ticket]
	ChangeStatus(ctx context.Context, id int, status string) (ticket.Ticket, error)
	FindByID(ctx context.Context, id int) (ticket.Ticket, error)
	Statuses() ticket.StatusSet
}

// Session drives one interactive run: a single login attempt followed by
// the menu loop until the user exits, input ends or ctx is cancelled.
type Session struct {
	Log         *slog.Logger
	Tickets     Tracker
	Credentials auth.Credentials
	Prompt      *Prompter
	Out         io.Writer

	// DateRetries bounds the date prompts per ticket; values below 1 mean 3.
	DateRetries int
	// Now defaults to time.Now.
	Now     func() time.Time
	Metrics *Metrics

	user string
}

// User returns the name that logged in, or "" before a successful login.
func (s *Session) User() string { return s.user }

// Run logs the user in and serves the menu. It returns ErrAccessDenied when
// login fails and nil when the session ends normally.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.Out, "\nWelcome to ServiceDesk!")

	if err := s.Login(ctx); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			fmt.Fprintln(s.Out, "Access denied.")
			return err
		}
		return s.stop(ctx, err)
	}

	ctx = actor.With(ctx, s.user)

	for {
		s.printMenu()

		opt, err := s.Prompt.ReadLine(ctx, "\nChoose an option: ")
		if err != nil {
			return s.stop(ctx, err)
		}

		var cmd func(context.Context) error
		name := ""
		switch strings.TrimSpace(opt) {
		case "1":
			name, cmd = "create", s.createTicket
		case "2":
			name, cmd = "list", s.listTickets
		case "3":
			name, cmd = "change_status", s.changeStatus
		case "4":
			name, cmd = "find", s.findTicket
		case "5":
			s.Metrics.command("exit")
			fmt.Fprintln(s.Out, "Shutting down...")
			s.Log.Info("session_end", slog.String("user", s.user), slog.String("reason", "exit"))
			return nil
		default:
			fmt.Fprintln(s.Out, "✗ Invalid option!")
			continue
		}

		s.Metrics.command(name)
		if err := s.dispatch(ctx, name, cmd); err != nil {
			return s.stop(ctx, err)
		}
	}
}

// Login offers exactly one attempt.
func (s *Session) Login(ctx context.Context) error {
	fmt.Fprintln(s.Out, "\n=== LOGIN ===")

	user, err := s.Prompt.ReadLine(ctx, "User: ")
	if err != nil {
		return err
	}
	user = strings.TrimSpace(user)

	password, err := s.Prompt.ReadSecret(ctx, "Password: ")
	if err != nil {
		return err
	}

	if err := s.Credentials.Authenticate(user, password); err != nil {
		s.Metrics.login("failure")
		s.Log.Warn("login_failed", slog.String("user", user))
		fmt.Fprintln(s.Out, "✗ Invalid user or password")
		return ErrAccessDenied
	}

	s.user = user
	s.Metrics.login("success")
	s.Log.Info("login_succeeded", slog.String("user", user))
	fmt.Fprintf(s.Out, "✓ Logged in as %s\n", user)
	return nil
}

// dispatch runs one menu command. Errors the command could not recover
// from and panics are reported and swallowed; only end of input and
// cancellation are returned, since they end the session.
func (s *Session) dispatch(ctx context.Context, name string, cmd func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Metrics.panicked()
			s.Log.Error("command_panic", slog.String("command", name), slog.Any("panic", r))
			fmt.Fprintf(s.Out, "✗ Unexpected error: %v\n", r)
			err = nil
		}
	}()

	err = cmd(ctx)
	if err == nil || isEndOfSession(ctx, err) {
		return err
	}

	s.Log.Error("command_failed", slog.String("command", name), slog.String("err", err.Error()))
	fmt.Fprintf(s.Out, "✗ Unexpected error: %v\n", err)
	return nil
}

func isEndOfSession(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || ctx.Err() != nil
}

func (s *Session) stop(ctx context.Context, err error) error {
	if !isEndOfSession(ctx, err) {
		return err
	}
	reason := "eof"
	if ctx.Err() != nil {
		reason = "interrupt"
		fmt.Fprintln(s.Out)
	}
	fmt.Fprintln(s.Out, "Shutting down...")
	s.Log.Info("session_end", slog.String("user", s.user), slog.String("reason", reason))
	return nil
}

func (s *Session) printMenu() {
	rule := strings.Repeat("=", detailRuleWidth)
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, "       SERVICEDESK - Ticket System")
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, "1. Create new ticket")
	fmt.Fprintln(s.Out, "2. List all tickets")
	fmt.Fprintln(s.Out, "3. Change ticket status")
	fmt.Fprintln(s.Out, "4. Find ticket by ID")
	fmt.Fprintln(s.Out, "5. Exit")
	fmt.Fprintln(s.Out, rule)
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Session) dateRetries() int {
	if s.DateRetries < 1 {
		return 3
	}
	return s.DateRetries
}

// readRequired reads a trimmed answer and reports whether it was non-empty.
func (s *Session) readRequired(ctx context.Context, prompt, field string) (string, bool, error) {
	v, err := s.Prompt.ReadLine(ctx, prompt)
	if err != nil {
		return "", false, err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		fmt.Fprintf(s.Out, "✗ %s is required\n", field)
		return "", false, nil
	}
	return v, true, nil
}

// readDate applies the retry budget and returns ErrAttemptsExhausted once it
// is spent.
func (s *Session) readDate(ctx context.Context) (string, error) {
	retries := s.dateRetries()
	for attempt := 1; attempt <= retries; attempt++ {
		raw, err := s.Prompt.ReadLine(ctx, "Date (DD/MM/YYYY): ")
		if err != nil {
			return "", err
		}

		date, verr := ticket.ValidateDate(strings.TrimSpace(raw), s.now())
		if verr == nil {
			return date, nil
		}

		fmt.Fprintf(s.Out, "✗ %v\n", verr)
		if left := retries - attempt; left > 0 {
			fmt.Fprintf(s.Out, "  Attempts remaining: %d\n", left)
		}
	}
	return "", ErrAttemptsExhausted
}

func (s *Session) createTicket(ctx context.Context) error {
	fmt.Fprintln(s.Out, "\n=== CREATE TICKET ===")

	title, ok, err := s.readRequired(ctx, "Title: ", "Title")
	if err != nil || !ok {
		return err
	}
	description, ok, err := s.readRequired(ctx, "Description: ", "Description")
	if err != nil || !ok {
		return err
	}
	requester, ok, err := s.readRequired(ctx, "Requester: ", "Requester")
	if err != nil || !ok {
		return err
	}

	date, err := s.readDate(ctx)
	if errors.Is(err, ErrAttemptsExhausted) {
		s.Metrics.retriesExhausted()
		fmt.Fprintln(s.Out, "✗ Too many attempts. Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	t, err := s.Tickets.Create(ctx, ticket.CreateTicketRequest{
		Title:       title,
		Description: description,
		Requester:   requester,
		Date:        date,
	})
	if err != nil {
		var ve ticket.ValidationError
		var de *ticket.DateError
		if errors.As(err, &ve) || errors.As(err, &de) {
			fmt.Fprintf(s.Out, "✗ %v\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(s.Out, "✓ Ticket #%d created!\n", t.ID)
	return nil
}

func (s *Session) listTickets(ctx context.Context) error {
	RenderTable(s.Out, slices.Collect(s.Tickets.List(ctx)))
	return nil
}

// readID reports false after printing a message when the answer is not
// an integer.
func (s *Session) readID(ctx context.Context) (int, bool, error) {
	raw, err := s.Prompt.ReadLine(ctx, "\nTicket ID: ")
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintln(s.Out, "✗ Invalid ID")
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Session) changeStatus(ctx context.Context) error {
	if err := s.listTickets(ctx); err != nil {
		return err
	}

	id, ok, err := s.readID(ctx)
	if err != nil || !ok {
		return err
	}

	fmt.Fprintln(s.Out, "\nValid statuses:")
	for _, st := range s.Tickets.Statuses().Values() {
		fmt.Fprintf(s.Out, " - %s\n", st)
	}

	status, err := s.Prompt.ReadLine(ctx, "\nNew status: ")
	if err != nil {
		return err
	}

	t, err := s.Tickets.ChangeStatus(ctx, id, status)
	if err != nil {
		var ise *ticket.InvalidStatusError
		switch {
		case errors.As(err, &ise):
			fmt.Fprintf(s.Out, "✗ Invalid status! Use: %s\n", strings.Join(ise.Valid, ", "))
			return nil
		case errors.Is(err, ticket.ErrNotFound):
			fmt.Fprintln(s.Out, "✗ Ticket not found")
			return nil
		}
		return err
	}

	fmt.Fprintf(s.Out, "✓ Status changed to: %s\n", t.Status)
	return nil
}

func (s *Session) findTicket(ctx context.Context) error {
	id, ok, err := s.readID(ctx)
	if err != nil || !ok {
		return err
	}

	t, err := s.Tickets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			fmt.Fprintln(s.Out, "✗ Ticket not found")
			return nil
		}
		return err
	}

	RenderDetail(s.Out, t)
	return nil
}
