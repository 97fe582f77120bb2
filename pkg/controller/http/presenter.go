package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/errutil"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/safe"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	templateLayout = "layout.html"
	templateLogin  = "login.html"
)

// responseMode selects the record projection for script clients.
func responseMode(r *http.Request) types.ResponseMode {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return types.ResponseModeRecord
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return types.ResponseModeRecord
	}
	return types.ResponseModeDocument
}

// loginView is the login page.
type loginView struct {
	UserID string
	Error  string
}

// pageData is handed to the layout template. Exactly one of the view
// fields is set.
type pageData struct {
	Title   string
	User    *auth.User
	Flashes []Flash
	Next    string

	Form   *view.NewTicket
	Detail *view.TicketDetail
	List   *view.TicketList
	Login  *loginView
}

type presenter struct {
	title string
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"fieldError": func(errs model.ValidationErrors, field string) string {
		return errs.For(field)
	},
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	"selected": func(current, value string) template.HTMLAttr {
		if current == value {
			return " selected"
		}
		return ""
	},
}

func newPresenter(title string) (*presenter, error) {
	p := &presenter{
		title: title,
		pages: make(map[string]*template.Template),
	}

	for _, name := range []string{view.TemplateTicket, view.TemplateTicketList, templateLogin} {
		tmpl, err := template.New(templateLayout).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/"+templateLayout, "templates/"+name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse template", goerr.V("template", name))
		}
		p.pages[name] = tmpl
	}

	return p, nil
}

func (s *Server) pageData(w http.ResponseWriter, r *http.Request) pageData {
	data := pageData{
		Title:   s.title,
		Flashes: s.popFlashes(w, r),
		Next:    r.URL.Query().Get(nextParam),
	}
	if user, err := auth.UserFromContext(r.Context()); err == nil {
		data.User = user
	}
	return data
}

// render writes result in the projection chosen by its mode.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, result *view.Result) {
	if result.Mode == types.ResponseModeRecord {
		s.writeRecord(w, r, status, result.Record)
		return
	}

	data := s.pageData(w, r)
	switch v := result.Document.(type) {
	case *view.NewTicket:
		data.Form = v
	case *view.TicketDetail:
		data.Detail = v
	case *view.TicketList:
		data.List = v
	default:
		errutil.HandleHTTP(r.Context(), w, goerr.New("unknown document view", goerr.V("template", result.Template)), http.StatusInternalServerError)
		return
	}

	s.writePage(w, r, status, result.Template, data)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tmpl, ok := s.presenter.pages[name]
	if !ok {
		errutil.HandleHTTP(r.Context(), w, goerr.New("template not found", goerr.V("template", name)), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateLayout, data); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render template", goerr.V("template", name)), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, buf.Bytes())
}

func (s *Server) writeRecord(w http.ResponseWriter, r *http.Request, status int, record any) {
	data, err := json.Marshal(record)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal record"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

type validationRecord struct {
	Errors model.ValidationErrors `json:"errors"`
}
