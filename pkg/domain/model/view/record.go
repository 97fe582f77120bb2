package view

import (
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
)

// TicketRecord is the machine readable projection of a ticket.
type TicketRecord struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	Message    string          `json:"message"`
	User       string          `json:"user"`
	Status     string          `json:"status"`
	Comments   []CommentRecord `json:"comments"`
	AssignedTo *string         `json:"assigned_to"`
}

type CommentRecord struct {
	User    string `json:"user"`
	Comment string `json:"comment"`
	Status  string `json:"status"`
}

// TicketListRecord is the machine readable projection of a ticket page.
type TicketListRecord struct {
	Result      []TicketRecord `json:"result"`
	Page        int            `json:"page"`
	Total       int            `json:"total"`
	HasPrevious bool           `json:"has_previous"`
	HasNext     bool           `json:"has_next"`
}

// NewTicketRecord projects t. Unassigned tickets serialize assigned_to as null.
func NewTicketRecord(t *model.Ticket) *TicketRecord {
	comments := make([]CommentRecord, len(t.Comments))
	for i, c := range t.Comments {
		comments[i] = CommentRecord{
			User:    c.Author.String(),
			Comment: c.Text,
			Status:  c.Status.String(),
		}
	}

	rec := &TicketRecord{
		ID:       t.ID.String(),
		Subject:  t.Subject,
		Message:  t.Message,
		User:     t.Owner.String(),
		Status:   t.Status.String(),
		Comments: comments,
	}
	if !t.AssignedTo.IsZero() {
		assigned := t.AssignedTo.String()
		rec.AssignedTo = &assigned
	}
	return rec
}

// NewTicketListRecord projects a page of tickets.
func NewTicketListRecord(page *pagination.Page[*model.Ticket]) *TicketListRecord {
	result := make([]TicketRecord, len(page.Items))
	for i, t := range page.Items {
		result[i] = *NewTicketRecord(t)
	}
	return &TicketListRecord{
		Result:      result,
		Page:        page.Number,
		Total:       page.Total,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
	}
}
