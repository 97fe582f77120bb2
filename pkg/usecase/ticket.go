package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/errutil"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

// TicketUseCase drives ticket creation, viewing, listing and commenting on
// behalf of an authenticated user. It imposes no order on status changes.
type TicketUseCase struct {
	repo   interfaces.Repository
	labels view.StatusLabels
}

func NewTicketUseCase(repo interfaces.Repository, labels view.StatusLabels) *TicketUseCase {
	return &TicketUseCase{
		repo:   repo,
		labels: labels,
	}
}

// notFound converts any lookup failure into ErrTicketNotFound. Failures
// other than a plain miss are logged first so they are not lost.
func notFound(ctx context.Context, err error, id types.TicketID) error {
	if !errors.Is(err, model.ErrTicketNotFound) {
		_ = errutil.Handle(ctx, err, "ticket lookup failed")
	}
	return goerr.Wrap(ErrTicketNotFound, "ticket not found", goerr.V(TicketIDKey, id))
}

func (uc *TicketUseCase) getTicket(ctx context.Context, user types.UserID, id types.TicketID) (*model.Ticket, error) {
	if user.IsZero() {
		return nil, goerr.Wrap(ErrUnauthenticated, "user is required")
	}
	t, err := uc.repo.Ticket().Get(ctx, user, id)
	if err != nil {
		return nil, notFound(ctx, err, id)
	}
	return t, nil
}

// CreateTicket validates form and stores a ticket owned by user. On
// validation failure the returned error wraps model.ValidationErrors and
// nothing is stored.
func (uc *TicketUseCase) CreateTicket(ctx context.Context, user types.UserID, form model.TicketForm) (*model.Ticket, error) {
	if user.IsZero() {
		return nil, goerr.Wrap(ErrUnauthenticated, "user is required")
	}

	in, err := form.Validate()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid ticket submission", goerr.V(UserIDKey, user))
	}

	created, err := uc.repo.Ticket().Create(ctx, &model.Ticket{
		Subject:    in.Subject,
		Message:    in.Message,
		Status:     in.Status,
		Owner:      user,
		AssignedTo: in.AssignedTo,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create ticket", goerr.V(UserIDKey, user))
	}

	logging.From(ctx).Info("ticket created",
		"ticket_id", created.ID,
		"user_id", user,
		"status", created.Status,
	)
	return created, nil
}

// ViewTicket returns the creation form when id is empty, and the ticket
// detail otherwise. Both response modes go through the same lookup.
func (uc *TicketUseCase) ViewTicket(ctx context.Context, user types.UserID, id types.TicketID, mode types.ResponseMode) (*view.Result, error) {
	if id == "" {
		if user.IsZero() {
			return nil, goerr.Wrap(ErrUnauthenticated, "user is required")
		}
		return uc.TicketFormResult(mode, model.TicketForm{}, nil), nil
	}

	t, err := uc.getTicket(ctx, user, id)
	if err != nil {
		return nil, err
	}

	return uc.TicketResult(mode, t, model.CommentForm{}, nil), nil
}

// ListTickets returns page number of the user's tickets, DefaultPageSize
// tickets per page.
func (uc *TicketUseCase) ListTickets(ctx context.Context, user types.UserID, page int, mode types.ResponseMode) (*view.Result, error) {
	if user.IsZero() {
		return nil, goerr.Wrap(ErrUnauthenticated, "user is required")
	}

	src := uc.repo.Ticket().List(ctx, user)
	p, err := pagination.Paginate(ctx, page, pagination.DefaultPageSize, src)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tickets", goerr.V(UserIDKey, user), goerr.V(PageKey, page))
	}

	summaries := pagination.Map(p, func(t *model.Ticket) view.TicketSummary {
		return view.NewTicketSummary(t, uc.labels)
	})

	return &view.Result{
		Mode:     mode,
		Template: view.TemplateTicketList,
		Document: &view.TicketList{Page: summaries},
		Record:   view.NewTicketListRecord(p),
	}, nil
}

// AddComment appends a comment by author to a ticket owned by user. The
// ticket is looked up before the form is validated; when validation fails
// the ticket is returned together with the error so the caller can show
// the ticket again. The ticket's own status is left untouched.
func (uc *TicketUseCase) AddComment(ctx context.Context, user, author types.UserID, id types.TicketID, form model.CommentForm) (*model.Ticket, error) {
	t, err := uc.getTicket(ctx, user, id)
	if err != nil {
		return nil, err
	}

	in, err := form.Validate()
	if err != nil {
		return t, goerr.Wrap(err, "invalid comment submission", goerr.V(TicketIDKey, id))
	}

	updated, err := uc.repo.Ticket().AppendComment(ctx, user, id, model.Comment{
		Author: author,
		Text:   in.Text,
		Status: in.Status,
	})
	if err != nil {
		return nil, notFound(ctx, err, id)
	}

	logging.From(ctx).Info("comment added",
		"ticket_id", id,
		"user_id", author,
		"comments", len(updated.Comments),
	)
	return updated, nil
}

// TicketFormResult builds the creation form view, optionally with the
// errors of a rejected submission.
func (uc *TicketUseCase) TicketFormResult(mode types.ResponseMode, form model.TicketForm, errs model.ValidationErrors) *view.Result {
	v := view.NewTicketForm(form, errs, uc.labels)
	return &view.Result{
		Mode:     mode,
		Template: view.TemplateTicket,
		Document: v,
		Record:   v,
	}
}

// TicketResult builds the ticket detail view, optionally with the errors of
// a rejected comment.
func (uc *TicketUseCase) TicketResult(mode types.ResponseMode, t *model.Ticket, form model.CommentForm, errs model.ValidationErrors) *view.Result {
	detail := view.NewTicketDetail(t, uc.labels)
	detail.CommentForm = form
	detail.Errors = errs
	return &view.Result{
		Mode:     mode,
		Template: view.TemplateTicket,
		Document: detail,
		Record:   view.NewTicketRecord(t),
	}
}
