package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/errutil"
)

const msgLoginFailed = "Invalid user or password"

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	// Nothing to log in to without authentication
	if s.authUC.IsNoAuthn() {
		http.Redirect(w, r, nextURL(r, defaultRedirectPath), http.StatusFound)
		return
	}

	data := s.pageData(w, r)
	data.Login = &loginView{}
	s.writePage(w, r, http.StatusOK, templateLogin, data)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	userID := strings.TrimSpace(r.PostForm.Get("user_id"))

	session, err := s.authUC.Login(r.Context(), types.UserID(userID), r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, usecase.ErrUnauthenticated) {
			_ = errutil.Handle(r.Context(), err, "login failed")
		}
		data := s.pageData(w, r)
		data.Next = r.PostForm.Get(nextParam)
		data.Login = &loginView{UserID: userID, Error: msgLoginFailed}
		s.writePage(w, r, http.StatusUnauthorized, templateLogin, data)
		return
	}

	if !s.authUC.IsNoAuthn() {
		s.setSessionCookie(w, r, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	}

	http.Redirect(w, r, nextURL(r, defaultRedirectPath), http.StatusSeeOther)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.authUC.Logout(r.Context(), token); err != nil {
			_ = errutil.Handle(r.Context(), err, "failed to revoke session")
		}
	}
	s.setSessionCookie(w, r, "", -1)
	http.Redirect(w, r, s.loginURL, http.StatusSeeOther)
}
