package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Flash levels
const (
	flashInfo    = "info"
	flashWarning = "warning"
	flashError   = "error"
)

const (
	flashCookieName = "monstor_flash"
	flashMaxAge     = 60 * time.Second
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func decodeFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// addFlash queues a notice for the page the client is redirected to.
// Notices still pending from the current request are carried over.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, level, msg string) {
	flashes := append(decodeFlashes(r), Flash{Level: level, Message: msg})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashMaxAge.Seconds()),
	})
}

// popFlashes returns pending notices and clears them.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := decodeFlashes(r)
	if flashes == nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return flashes
}
