package ticket

import (
	"strings"
)

type Ticket struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Requester   string `json:"requester"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Requester   string `json:"requester"`
	Date        string `json:"date"`
}

// Normalize returns a copy with every field trimmed.
func (r CreateTicketRequest) Normalize() CreateTicketRequest {
	return CreateTicketRequest{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Requester:   strings.TrimSpace(r.Requester),
		Date:        strings.TrimSpace(r.Date),
	}
}

// Validate checks the required text fields. The date is checked separately
// by ValidateDate since it depends on the current time.
func (r CreateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ValidationError("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return ValidationError("description is required")
	}
	if strings.TrimSpace(r.Requester) == "" {
		return ValidationError("requester is required")
	}
	return nil
}
