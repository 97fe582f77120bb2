package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/pagination"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/errutil"
)

// Flash messages
const (
	msgTicketCreated    = "Your ticket has been created"
	msgCommentAdded     = "Your comment has been added to the ticket"
	msgTicketNotFound   = "Ticket not found!"
	msgCommentNotFound  = "Requested ticket not found"
	msgCommentFailed    = "Something went wrong while saving your comment! Try Again"
	msgCreateFailed     = "Something went wrong while creating your ticket! Try Again"
	msgPageNotFound     = "Page not found"
	msgListFailed       = "Your tickets could not be loaded. Try Again"
	createTicketPath    = "/ticket/+create-ticket"
	ticketListPath      = "/ticket-list"
	defaultRedirectPath = "/"
)

func ticketPath(id types.TicketID) string {
	return "/ticket/" + id.String()
}

// requestUser returns the user resolved by authMiddleware
func (s *Server) requestUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, loginRedirect(s.loginURL, r), http.StatusSeeOther)
		return nil, false
	}
	return user, true
}

// handleNotFound redirects with a warning. Failures other than a missing
// ticket have already been logged by the use case.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, usecase.ErrUnauthenticated) {
		http.Redirect(w, r, loginRedirect(s.loginURL, r), http.StatusSeeOther)
		return
	}
	if !errors.Is(err, usecase.ErrTicketNotFound) {
		_ = errutil.Handle(r.Context(), err, "unexpected ticket failure")
	}
	s.addFlash(w, r, flashWarning, msg)
	http.Redirect(w, r, nextURL(r, defaultRedirectPath), http.StatusSeeOther)
}

// decodeForm fills dst from a JSON body or from form values looked up by
// the given field function.
func decodeForm(r *http.Request, dst any, fromForm func(get func(string) string)) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return goerr.Wrap(err, "failed to decode request body")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return goerr.Wrap(err, "failed to parse form")
	}
	fromForm(r.PostForm.Get)
	return nil
}

type ticketRequest struct {
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	Status  string `json:"status"`
}

func (s *Server) listTicketsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	page := 1
	if raw := chi.URLParam(r, "page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		page = n
	}

	result, err := s.ticketUC.ListTickets(r.Context(), user.ID, page, responseMode(r))
	switch {
	case err == nil:
		s.render(w, r, http.StatusOK, result)

	case errors.Is(err, pagination.ErrInvalidPage):
		s.addFlash(w, r, flashWarning, msgPageNotFound)
		http.Redirect(w, r, ticketListPath, http.StatusSeeOther)

	case page > 1:
		_ = errutil.Handle(r.Context(), err, "failed to list tickets")
		s.addFlash(w, r, flashWarning, msgListFailed)
		http.Redirect(w, r, ticketListPath, http.StatusSeeOther)

	default:
		// the first page has nowhere to fall back to
		errutil.HandleHTTP(r.Context(), w, err, http.StatusServiceUnavailable)
	}
}

func (s *Server) newTicketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	result, err := s.ticketUC.ViewTicket(r.Context(), user.ID, "", responseMode(r))
	if err != nil {
		s.handleNotFound(w, r, err, msgTicketNotFound)
		return
	}
	s.render(w, r, http.StatusOK, result)
}

func (s *Server) createTicketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	mode := responseMode(r)

	var req ticketRequest
	if err := decodeForm(r, &req, func(get func(string) string) {
		req = ticketRequest{
			Subject:    get("subject"),
			Message:    get("message"),
			Status:     get("status"),
			AssignedTo: get("assigned_to"),
		}
	}); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	form := model.TicketForm{
		Subject:    req.Subject,
		Message:    req.Message,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	}

	created, err := s.ticketUC.CreateTicket(r.Context(), user.ID, form)
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			if mode == types.ResponseModeRecord {
				s.writeRecord(w, r, http.StatusUnprocessableEntity, validationRecord{Errors: verrs})
				return
			}
			s.render(w, r, http.StatusOK, s.ticketUC.TicketFormResult(mode, form, verrs))

		case errors.Is(err, usecase.ErrUnauthenticated):
			http.Redirect(w, r, loginRedirect(s.loginURL, r), http.StatusSeeOther)

		default:
			_ = errutil.Handle(r.Context(), err, "failed to create ticket")
			s.addFlash(w, r, flashError, msgCreateFailed)
			http.Redirect(w, r, createTicketPath, http.StatusSeeOther)
		}
		return
	}

	if mode == types.ResponseModeRecord {
		w.Header().Set("Location", ticketPath(created.ID))
		s.writeRecord(w, r, http.StatusCreated, view.NewTicketRecord(created))
		return
	}

	s.addFlash(w, r, flashInfo, msgTicketCreated)
	http.Redirect(w, r, ticketPath(created.ID), http.StatusSeeOther)
}

func (s *Server) viewTicketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	id := types.TicketID(chi.URLParam(r, "id"))
	result, err := s.ticketUC.ViewTicket(r.Context(), user.ID, id, responseMode(r))
	if err != nil {
		s.handleNotFound(w, r, err, msgTicketNotFound)
		return
	}
	s.render(w, r, http.StatusOK, result)
}

func (s *Server) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	mode := responseMode(r)
	id := types.TicketID(chi.URLParam(r, "id"))

	var req commentRequest
	if err := decodeForm(r, &req, func(get func(string) string) {
		req = commentRequest{
			Comment: get("comment"),
			Status:  get("status"),
		}
	}); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	form := model.CommentForm{Comment: req.Comment, Status: req.Status}
	ticket, err := s.ticketUC.AddComment(r.Context(), user.ID, user.ID, id, form)
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.As(err, &verrs) && ticket != nil:
			if mode == types.ResponseModeRecord {
				s.writeRecord(w, r, http.StatusUnprocessableEntity, validationRecord{Errors: verrs})
				return
			}
			s.render(w, r, http.StatusOK, s.ticketUC.TicketResult(mode, ticket, form, verrs))

		case errors.Is(err, usecase.ErrTicketNotFound), errors.Is(err, usecase.ErrUnauthenticated):
			s.handleNotFound(w, r, err, msgCommentNotFound)

		default:
			_ = errutil.Handle(r.Context(), err, "failed to add comment")
			s.addFlash(w, r, flashError, msgCommentFailed)
			http.Redirect(w, r, ticketPath(id), http.StatusSeeOther)
		}
		return
	}

	if mode == types.ResponseModeRecord {
		s.writeRecord(w, r, http.StatusOK, view.NewTicketRecord(ticket))
		return
	}

	s.addFlash(w, r, flashInfo, msgCommentAdded)
	http.Redirect(w, r, ticketPath(id), http.StatusSeeOther)
}
