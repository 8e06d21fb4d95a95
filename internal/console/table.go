package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/k1networth/servicedesk-cli/internal/ticket"
)

const (
	columnWidthID     = 5
	columnWidthTitle  = 30
	columnWidthStatus = 15
	columnWidthDate   = 12

	tableRuleWidth  = 80
	detailRuleWidth = 50
)

// cell truncates or pads s to exactly width terminal columns.
func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func row(id, title, status, date string) string {
	return strings.Join([]string{
		cell(id, columnWidthID),
		cell(title, columnWidthTitle),
		cell(status, columnWidthStatus),
		cell(date, columnWidthDate),
	}, " ")
}

// RenderTable writes tickets as a fixed-width table followed by a total
// line. An empty slice prints a notice instead of an empty table.
func RenderTable(w io.Writer, tickets []ticket.Ticket) {
	if len(tickets) == 0 {
		fmt.Fprintln(w, "\nNo tickets registered.")
		return
	}

	rule := strings.Repeat("=", tableRuleWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, row("ID", "Title", "Status", "Date"))
	fmt.Fprintln(w, rule)
	for _, t := range tickets {
		fmt.Fprintln(w, row(strconv.Itoa(t.ID), t.Title, t.Status, t.Date))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total: %d ticket(s)\n", len(tickets))
}

func RenderDetail(w io.Writer, t ticket.Ticket) {
	rule := strings.Repeat("=", detailRuleWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "TICKET #%d\n", t.ID)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-13s%s\n", "Title:", t.Title)
	fmt.Fprintf(w, "%-13s%s\n", "Description:", t.Description)
	fmt.Fprintf(w, "%-13s%s\n", "Requester:", t.Requester)
	fmt.Fprintf(w, "%-13s%s\n", "Date:", t.Date)
	fmt.Fprintf(w, "%-13s%s\n", "Status:", t.Status)
	fmt.Fprintln(w, rule)
}
