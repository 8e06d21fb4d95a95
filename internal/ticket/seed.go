package ticket

import (
	"context"
	"fmt"
)

// DemoTickets are loaded by the --seed flag.
var DemoTickets = []CreateTicketRequest{
	{
		Title:       "Printer not working",
		Description: "The 3rd floor printer is offline",
		Requester:   "joao.silva",
		Date:        "01/12/2025",
	},
}

// Seed creates each request through r so ids and validation follow the
// usual rules. It stops at the first failure.
func Seed(ctx context.Context, r *Registry, reqs []CreateTicketRequest) (int, error) {
	for i, req := range reqs {
		if _, err := r.Create(ctx, req); err != nil {
			return i, fmt.Errorf("seed ticket %d: %w", i+1, err)
		}
	}
	return len(reqs), nil
}
