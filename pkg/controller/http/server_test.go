package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"golang.org/x/crypto/bcrypt"

	httpctrl "github.com/Anoopsmohan/monstor-tickets/pkg/controller/http"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/repository/memory"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
)

type testServer struct {
	server *httpctrl.Server
	authUC *usecase.AuthUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	gt.NoError(t, err).Required()

	authUC, err := usecase.NewAuthUseCase([]byte(strings.Repeat("k", 32)),
		usecase.WithDirectory(auth.NewDirectory(auth.Credential{
			User:         auth.User{ID: "alice", Name: "Alice"},
			PasswordHash: string(hash),
		})),
	)
	gt.NoError(t, err).Required()

	uc := usecase.New(memory.New(), usecase.WithAuth(authUC))
	server, err := httpctrl.New(uc, httpctrl.WithTitle("Test Tickets"))
	gt.NoError(t, err).Required()

	return &testServer{server: server, authUC: authUC}
}

func (ts *testServer) token(t *testing.T, user string) string {
	t.Helper()
	session, err := ts.authUC.IssueToken(context.Background(), &auth.User{ID: types.UserID(user)})
	gt.NoError(t, err).Required()
	return session.Token
}

type requestOption func(*http.Request)

func asRecord(r *http.Request) {
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (ts *testServer) do(t *testing.T, user, method, target string, form url.Values, opts ...requestOption) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token(t, user))
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()
	return string(data)
}

func createTicket(t *testing.T, ts *testServer, user, subject string) string {
	t.Helper()
	resp := ts.do(t, user, http.MethodPost, "/ticket/+create-ticket", url.Values{
		"subject": {subject},
		"message": {"Sample testing"},
		"status":  {"new"},
	}, asRecord)
	gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)

	var rec view.TicketRecord
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&rec)).Required()
	return rec.ID
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unauthenticated request is sent to login", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodGet, "/ticket-list", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/login?next=%2Fticket-list")
	})

	t.Run("record mode is redirected the same way", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodGet, "/ticket-list", nil, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.String(t, resp.Header.Get("Location")).Contains("/login")
	})

	t.Run("login sets a session cookie and follows next", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodPost, "/login", url.Values{
			"user_id":  {"alice"},
			"password": {"secret-password"},
			"next":     {"/ticket/+create-ticket"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/ticket/+create-ticket")

		var session *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == httpctrl.SessionCookie {
				session = c
			}
		}
		gt.Value(t, session).NotNil()

		list := ts.do(t, "", http.MethodGet, "/ticket-list", nil, withCookies([]*http.Cookie{session}))
		gt.Value(t, list.StatusCode).Equal(http.StatusOK)
	})

	t.Run("login does not redirect off site", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodPost, "/login", url.Values{
			"user_id":  {"alice"},
			"password": {"secret-password"},
			"next":     {"https://evil.example.com/"},
		})
		gt.Value(t, resp.Header.Get("Location")).Equal("/")
	})

	t.Run("wrong password re-renders login", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodPost, "/login", url.Values{
			"user_id":  {"alice"},
			"password": {"nope"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusUnauthorized)
		gt.String(t, readBody(t, resp)).Contains("Invalid user or password")
	})

	t.Run("logout revokes the session cookie", func(t *testing.T) {
		resp := ts.do(t, "", http.MethodPost, "/login", url.Values{
			"user_id":  {"alice"},
			"password": {"secret-password"},
		})
		cookies := resp.Cookies()

		out := ts.do(t, "", http.MethodPost, "/logout", url.Values{}, withCookies(cookies))
		gt.Value(t, out.StatusCode).Equal(http.StatusSeeOther)

		list := ts.do(t, "", http.MethodGet, "/ticket-list", nil, withCookies(cookies))
		gt.Value(t, list.StatusCode).Equal(http.StatusSeeOther)
		gt.String(t, list.Header.Get("Location")).Contains("/login")
	})

	t.Run("root redirects to ticket list", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusFound)
		gt.Value(t, resp.Header.Get("Location")).Equal("/ticket-list")
	})
}

func TestCreateTicket(t *testing.T) {
	t.Run("document mode redirects to the new ticket with a notice", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/+create-ticket", url.Values{
			"subject": {"Printer on fire"},
			"message": {"Please help"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		location := resp.Header.Get("Location")
		gt.String(t, location).Contains("/ticket/")

		page := ts.do(t, "alice", http.MethodGet, location, nil, withCookies(resp.Cookies()))
		gt.Value(t, page.StatusCode).Equal(http.StatusOK)
		body := readBody(t, page)
		gt.String(t, body).Contains("Printer on fire")
		gt.String(t, body).Contains("Your ticket has been created")
		gt.String(t, body).Contains("Test Tickets")
	})

	t.Run("invalid submission re-renders the form", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/+create-ticket", url.Values{
			"subject": {""},
			"message": {"body"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		body := readBody(t, resp)
		gt.String(t, body).Contains("This field is required.")
		gt.String(t, body).Contains(">body</textarea>")

		list := ts.do(t, "alice", http.MethodGet, "/ticket-list", nil, asRecord)
		var rec view.TicketListRecord
		gt.NoError(t, json.NewDecoder(list.Body).Decode(&rec)).Required()
		gt.Value(t, rec.Total).Equal(0)
	})

	t.Run("record mode reports field errors", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/+create-ticket", url.Values{
			"subject": {"s"},
			"message": {"m"},
			"status":  {"done"},
		}, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusUnprocessableEntity)
		gt.String(t, readBody(t, resp)).Contains(`"field":"status"`)
	})

	t.Run("record mode accepts JSON bodies", func(t *testing.T) {
		ts := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/ticket/+create-ticket",
			strings.NewReader(`{"subject":"json","message":"body","assigned_to":"carol"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+ts.token(t, "alice"))
		w := httptest.NewRecorder()
		ts.server.ServeHTTP(w, req)

		gt.Value(t, w.Code).Equal(http.StatusCreated)
		var rec view.TicketRecord
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&rec)).Required()
		gt.Value(t, rec.Status).Equal("new")
		gt.Value(t, *rec.AssignedTo).Equal("carol")
		gt.Value(t, w.Header().Get("Location")).Equal("/ticket/" + rec.ID)
	})

	t.Run("blank form lists statuses", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, "alice", http.MethodGet, "/ticket/+create-ticket", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		body := readBody(t, resp)
		gt.String(t, body).Contains(`<option value="progress"`)
		gt.String(t, body).Contains(`<option value="new" selected>`)
	})
}

func TestViewTicket(t *testing.T) {
	ts := newTestServer(t)
	id := createTicket(t, ts, "alice", "Mine")

	t.Run("owner gets the record", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket/"+id, nil, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		var rec map[string]any
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&rec)).Required()
		gt.Value(t, rec["subject"]).Equal("Mine")
		gt.Value(t, rec["user"]).Equal("alice")
		gt.Value(t, rec["assigned_to"]).Nil()
	})

	t.Run("other user is redirected with a warning", func(t *testing.T) {
		resp := ts.do(t, "bob", http.MethodGet, "/ticket/"+id, nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/")

		var flash *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == httpctrl.FlashCookieName {
				flash = c
			}
		}
		gt.Value(t, flash).NotNil()
	})

	t.Run("not found honours a local next", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket/not-a-uuid?next=%2Fticket-list%2F2", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/ticket-list/2")
	})

	t.Run("record mode of a foreign ticket is indistinguishable from missing", func(t *testing.T) {
		foreign := ts.do(t, "bob", http.MethodGet, "/ticket/"+id, nil, asRecord)
		missing := ts.do(t, "bob", http.MethodGet, "/ticket/00000000-0000-0000-0000-000000000000", nil, asRecord)
		gt.Value(t, foreign.StatusCode).Equal(missing.StatusCode)
		gt.Value(t, foreign.Header.Get("Location")).Equal(missing.Header.Get("Location"))
	})
}

func TestListTickets(t *testing.T) {
	ts := newTestServer(t)
	for i := range 12 {
		createTicket(t, ts, "alice", fmt.Sprintf("ticket-%02d", i))
	}
	createTicket(t, ts, "bob", "bob's")

	t.Run("second page in record mode", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket-list/2", nil, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		var rec view.TicketListRecord
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&rec)).Required()
		gt.Value(t, rec.Page).Equal(2)
		gt.Value(t, rec.Total).Equal(12)
		gt.Array(t, rec.Result).Length(2)
		gt.Value(t, rec.Result[0].Subject).Equal("ticket-10")
		gt.Value(t, rec.HasPrevious).Equal(true)
		gt.Value(t, rec.HasNext).Equal(false)
	})

	t.Run("first page in document mode links to the next", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket-list", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		body := readBody(t, resp)
		gt.String(t, body).Contains("ticket-00")
		gt.String(t, body).Contains(`href="/ticket-list/2"`)
		gt.String(t, body).Contains("Page 1 of 2")
	})

	t.Run("page zero is redirected to the first page", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket-list/0", nil)
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/ticket-list")
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		resp := ts.do(t, "alice", http.MethodGet, "/ticket-list/9", nil, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		var rec view.TicketListRecord
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&rec)).Required()
		gt.Array(t, rec.Result).Length(0)
		gt.Value(t, rec.HasNext).Equal(false)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("comment is appended and ticket status kept", func(t *testing.T) {
		ts := newTestServer(t)
		id := createTicket(t, ts, "alice", "Thread")

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/"+id+"/comment", url.Values{
			"comment": {"looking into it"},
			"status":  {"progress"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/ticket/" + id)

		page := ts.do(t, "alice", http.MethodGet, "/ticket/"+id, nil, withCookies(resp.Cookies()))
		body := readBody(t, page)
		gt.String(t, body).Contains("looking into it")
		gt.String(t, body).Contains("Your comment has been added to the ticket")

		rec := ts.do(t, "alice", http.MethodGet, "/ticket/"+id, nil, asRecord)
		var ticket view.TicketRecord
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&ticket)).Required()
		gt.Value(t, ticket.Status).Equal("new")
		gt.Array(t, ticket.Comments).Length(1)
		gt.Value(t, ticket.Comments[0]).Equal(view.CommentRecord{User: "alice", Comment: "looking into it", Status: "progress"})
	})

	t.Run("invalid comment re-renders the ticket", func(t *testing.T) {
		ts := newTestServer(t)
		id := createTicket(t, ts, "alice", "Keep context")

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/"+id+"/comment", url.Values{
			"comment": {"no status"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		body := readBody(t, resp)
		gt.String(t, body).Contains("Keep context")
		gt.String(t, body).Contains("This field is required.")
	})

	t.Run("invalid comment in record mode", func(t *testing.T) {
		ts := newTestServer(t)
		id := createTicket(t, ts, "alice", "Record")

		resp := ts.do(t, "alice", http.MethodPost, "/ticket/"+id+"/comment", url.Values{
			"status": {"closed"},
		}, asRecord)
		gt.Value(t, resp.StatusCode).Equal(http.StatusUnprocessableEntity)
		gt.String(t, readBody(t, resp)).Contains(`"field":"comment"`)
	})

	t.Run("comment on a foreign ticket is refused", func(t *testing.T) {
		ts := newTestServer(t)
		id := createTicket(t, ts, "alice", "Private")

		resp := ts.do(t, "bob", http.MethodPost, "/ticket/"+id+"/comment", url.Values{
			"comment": {"sneaky"},
			"status":  {"closed"},
		})
		gt.Value(t, resp.StatusCode).Equal(http.StatusSeeOther)
		gt.Value(t, resp.Header.Get("Location")).Equal("/")

		rec := ts.do(t, "alice", http.MethodGet, "/ticket/"+id, nil, asRecord)
		var ticket view.TicketRecord
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&ticket)).Required()
		gt.Array(t, ticket.Comments).Length(0)
	})
}
