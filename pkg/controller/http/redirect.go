package http

import (
	"net/http"
	"net/url"
	"strings"
)

const nextParam = "next"

// localPath reports whether target stays on this site.
func localPath(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	// "//host" and "/\host" are treated as absolute by browsers
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// nextURL returns the "next" parameter of r when it is a local path, and
// fallback otherwise.
func nextURL(r *http.Request, fallback string) string {
	next := r.URL.Query().Get(nextParam)
	if next == "" && r.Method == http.MethodPost {
		next = r.PostFormValue(nextParam)
	}
	if localPath(next) {
		return next
	}
	return fallback
}
