package http

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

const (
	DefaultTitle    = "Monstor Tickets"
	DefaultLoginURL = "/login"
)

type Server struct {
	router       *chi.Mux
	ticketUC     *usecase.TicketUseCase
	authUC       AuthUseCase
	presenter    *presenter
	title        string
	loginURL     string
	secureCookie bool
}

type Options func(*Server)

// WithTitle sets the title shown on every page
func WithTitle(title string) Options {
	return func(s *Server) {
		s.title = title
	}
}

// WithLoginURL sets where unauthenticated requests are sent
func WithLoginURL(url string) Options {
	return func(s *Server) {
		s.loginURL = url
	}
}

// WithSecureCookie marks session and flash cookies as HTTPS only
func WithSecureCookie(secure bool) Options {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil || uc.Ticket == nil {
		return nil, goerr.New("ticket use case is required")
	}
	if uc.Auth == nil {
		return nil, goerr.New("auth use case is required")
	}

	r := chi.NewRouter()

	s := &Server{
		router:   r,
		ticketUC: uc.Ticket,
		authUC:   uc.Auth,
		title:    DefaultTitle,
		loginURL: DefaultLoginURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	p, err := newPresenter(s.title)
	if err != nil {
		return nil, err
	}
	s.presenter = p

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Recoverer)

	r.Get("/login", s.loginPageHandler)
	r.Post("/login", s.loginHandler)
	r.Post("/logout", s.logoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.authUC, s.loginURL))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/ticket-list", http.StatusFound)
		})
		r.Get("/ticket-list", s.listTicketsHandler)
		r.Get("/ticket-list/{page:[0-9]+}", s.listTicketsHandler)

		r.Route("/ticket", func(r chi.Router) {
			r.Get("/+create-ticket", s.newTicketHandler)
			r.Post("/+create-ticket", s.createTicketHandler)
			r.Get("/{id}", s.viewTicketHandler)
			r.Post("/{id}/comment", s.addCommentHandler)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger scopes the logger of each request to its request ID
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.Default().With("request_id", middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

