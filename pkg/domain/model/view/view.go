// Package view holds the shape agnostic results of workflow operations.
// A Result carries both the document view model and the structured record;
// the presenter picks one according to Result.Mode.
package view

import (
	"time"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
)

// Document template names
const (
	TemplateTicket     = "ticket.html"
	TemplateTicketList = "ticket_list.html"
)

// Result is the output of a workflow operation.
type Result struct {
	Mode     types.ResponseMode
	Template string
	Document any
	Record   any
}

// StatusOption is one entry of a status select box.
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatusLabels maps statuses to display names. Missing entries fall back to
// TicketStatus.Label.
type StatusLabels map[types.TicketStatus]string

func (l StatusLabels) Label(s types.TicketStatus) string {
	if name, ok := l[s]; ok && name != "" {
		return name
	}
	return s.Label()
}

func (l StatusLabels) Options() []StatusOption {
	statuses := types.AllTicketStatuses()
	opts := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		opts[i] = StatusOption{Value: s.String(), Label: l.Label(s)}
	}
	return opts
}

// NewTicket is the blank (or re-rendered) ticket creation form.
type NewTicket struct {
	Form     model.TicketForm       `json:"-"`
	Errors   model.ValidationErrors `json:"errors,omitempty"`
	Statuses []StatusOption         `json:"statuses"`
	Default  string                 `json:"default_status"`
}

// TicketDetail is a single ticket with its comment thread.
type TicketDetail struct {
	Ticket      *model.Ticket
	StatusLabel string
	Comments    []CommentDetail
	Statuses    []StatusOption
	CommentForm model.CommentForm
	Errors      model.ValidationErrors
}

type CommentDetail struct {
	Author      types.UserID
	Text        string
	Status      types.TicketStatus
	StatusLabel string
	CreatedAt   time.Time
}

// TicketSummary is one row of the ticket list.
type TicketSummary struct {
	ID           types.TicketID
	Subject      string
	Status       types.TicketStatus
	StatusLabel  string
	AssignedTo   types.UserID
	CommentCount int
	CreatedAt    time.Time
}

// TicketList is one page of the requesting user's tickets.
type TicketList struct {
	Page *pagination.Page[TicketSummary]
}

// NewTicketForm builds the creation form view; errors is nil for a blank form.
func NewTicketForm(form model.TicketForm, errs model.ValidationErrors, labels StatusLabels) *NewTicket {
	return &NewTicket{
		Form:     form,
		Errors:   errs,
		Statuses: labels.Options(),
		Default:  types.TicketStatusNew.String(),
	}
}

// NewTicketDetail builds the detail view of t.
func NewTicketDetail(t *model.Ticket, labels StatusLabels) *TicketDetail {
	comments := make([]CommentDetail, len(t.Comments))
	for i, c := range t.Comments {
		comments[i] = CommentDetail{
			Author:      c.Author,
			Text:        c.Text,
			Status:      c.Status,
			StatusLabel: labels.Label(c.Status),
			CreatedAt:   c.CreatedAt,
		}
	}
	return &TicketDetail{
		Ticket:      t,
		StatusLabel: labels.Label(t.Status),
		Comments:    comments,
		Statuses:    labels.Options(),
	}
}

// NewTicketSummary builds a list row for t.
func NewTicketSummary(t *model.Ticket, labels StatusLabels) TicketSummary {
	return TicketSummary{
		ID:           t.ID,
		Subject:      t.Subject,
		Status:       t.Status,
		StatusLabel:  labels.Label(t.Status),
		AssignedTo:   t.AssignedTo,
		CommentCount: len(t.Comments),
		CreatedAt:    t.CreatedAt,
	}
}
