package ticket_test

import (
	"errors"
	"testing"
	"time"

	"github.com/k1networth/servicedesk-cli/internal/ticket"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func reasonOf(t *testing.T, err error) ticket.DateReason {
	t.Helper()
	var de *ticket.DateError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DateError, got %T (%v)", err, err)
	}
	return de.Reason
}

func TestValidateDateAcceptsPastDates(t *testing.T) {
	for _, in := range []string{"10/01/2024", "01/01/2000", "29/02/2024", "31/12/2023", "15/06/2024"} {
		got, err := ticket.ValidateDate(in, fixedNow)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got != in {
			t.Fatalf("expected %q, got %q", in, got)
		}
	}
}

func TestValidateDateRejects(t *testing.T) {
	cases := []struct {
		in   string
		want ticket.DateReason
	}{
		{"", ticket.ReasonFormat},
		{"1/1/2024", ticket.ReasonFormat},
		{"2024-01-10", ticket.ReasonFormat},
		{"10-01-2024", ticket.ReasonFormat},
		{"10/01/20245", ticket.ReasonFormat},
		{"10/01/2024 ", ticket.ReasonFormat},
		{"ab/cd/efgh", ticket.ReasonNonNumeric},
		{"1a/01/2024", ticket.ReasonNonNumeric},
		{"1é/01/2024", ticket.ReasonNonNumeric},
		{"é/01/2024", ticket.ReasonFormat},
		{"+1/01/2024", ticket.ReasonNonNumeric},
		{"31/04/2024", ticket.ReasonCalendar},
		{"29/02/2023", ticket.ReasonCalendar},
		{"32/01/2024", ticket.ReasonCalendar},
		{"10/13/2024", ticket.ReasonCalendar},
		{"00/01/2024", ticket.ReasonCalendar},
		{"10/00/2024", ticket.ReasonCalendar},
		{"16/06/2024", ticket.ReasonFuture},
		{"01/01/2030", ticket.ReasonFuture},
		{"15/12/1999", ticket.ReasonTooOld},
		{"01/01/0000", ticket.ReasonTooOld},
	}

	for _, tc := range cases {
		got, err := ticket.ValidateDate(tc.in, fixedNow)
		if err == nil {
			t.Fatalf("%q: expected error, got %q", tc.in, got)
		}
		if r := reasonOf(t, err); r != tc.want {
			t.Fatalf("%q: expected reason %q, got %q", tc.in, tc.want, r)
		}
		if err.Error() == "" {
			t.Fatalf("%q: expected a message", tc.in)
		}
	}
}

func TestValidateDateTodayBoundary(t *testing.T) {
	now := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)

	if _, err := ticket.ValidateDate("01/03/2025", now); err != nil {
		t.Fatalf("expected today to be valid, got %v", err)
	}

	_, err := ticket.ValidateDate("02/03/2025", now)
	if r := reasonOf(t, err); r != ticket.ReasonFuture {
		t.Fatalf("expected reason %q, got %q", ticket.ReasonFuture, r)
	}
}

func TestValidateDateFutureCheckedBeforeYear(t *testing.T) {
	now := time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC)

	_, err := ticket.ValidateDate("15/12/1999", now)
	if r := reasonOf(t, err); r != ticket.ReasonFuture {
		t.Fatalf("expected reason %q, got %q", ticket.ReasonFuture, r)
	}
}
