package model

import (
	"strings"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every invalid field of a submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// For returns the message for field, or "" when the field is valid.
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, FieldError{Field: field, Message: msg})
}

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Not a valid choice"
)

// TicketForm is the raw ticket creation submission.
type TicketForm struct {
	Subject    string
	Message    string
	Status     string // empty selects the default status
	AssignedTo string
}

// TicketInput is a validated TicketForm.
type TicketInput struct {
	Subject    string
	Message    string
	Status     types.TicketStatus
	AssignedTo types.UserID
}

// Validate returns the typed input, or ValidationErrors listing every
// missing or invalid field.
func (f TicketForm) Validate() (*TicketInput, error) {
	var errs ValidationErrors

	subject := strings.TrimSpace(f.Subject)
	if subject == "" {
		errs.add("subject", msgRequired)
	}
	message := strings.TrimSpace(f.Message)
	if message == "" {
		errs.add("message", msgRequired)
	}
	status := types.TicketStatus(strings.TrimSpace(f.Status)).Normalize()
	if !status.IsValid() {
		errs.add("status", msgInvalidChoice)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &TicketInput{
		Subject:    subject,
		Message:    message,
		Status:     status,
		AssignedTo: types.UserID(strings.TrimSpace(f.AssignedTo)),
	}, nil
}

// CommentForm is the raw comment submission. Unlike tickets, the status
// has no default.
type CommentForm struct {
	Comment string
	Status  string
}

// CommentInput is a validated CommentForm.
type CommentInput struct {
	Text   string
	Status types.TicketStatus
}

func (f CommentForm) Validate() (*CommentInput, error) {
	var errs ValidationErrors

	text := strings.TrimSpace(f.Comment)
	if text == "" {
		errs.add("comment", msgRequired)
	}
	raw := strings.TrimSpace(f.Status)
	status := types.TicketStatus(raw)
	switch {
	case raw == "":
		errs.add("status", msgRequired)
	case !status.IsValid():
		errs.add("status", msgInvalidChoice)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &CommentInput{Text: text, Status: status}, nil
}
