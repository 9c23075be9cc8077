package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jaganov/theblogs-app/internal/service"
)

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	w := postForm(t, r, "/login/", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie after login")
	}
	return cookies
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	gdb, _, r := setupRouterTest(t)
	seedUser(t, gdb, "alice", "secret")

	w := postForm(t, r, "/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", w.Code)
	}

	w = postForm(t, r, "/login/", url.Values{
		"username": {"nobody"},
		"password": {"secret"},
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", w.Code)
	}
}

func TestLoginCreateEditDeleteFlow(t *testing.T) {
	gdb, _, r := setupRouterTest(t)
	seedUser(t, gdb, "alice", "secret")
	cookies := login(t, r, "alice", "secret")

	// Create a published post through the form endpoint.
	w := postForm(t, r, "/create/", url.Values{
		"title":   {"My First Post"},
		"content": {"hello world"},
		"status":  {"published"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 after create, got %d: %s", w.Code, w.Body.String())
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/my-first-post-") {
		t.Fatalf("expected redirect to the new post, got %q", location)
	}
	slug := strings.Trim(location, "/")

	// The detail page serves it.
	if w := doGet(t, r, location); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for new post, got %d", w.Code)
	}

	// Edit retitles but the slug stays frozen.
	w = postForm(t, r, "/"+slug+"/edit/", url.Values{
		"title":   {"Renamed Post"},
		"content": {"hello world again"},
		"status":  {"published"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 after edit, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("slug must not change on edit: %q vs %q", got, location)
	}

	// Delete, then the slug is gone.
	w = postForm(t, r, "/"+slug+"/delete/", nil, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 after delete, got %d: %s", w.Code, w.Body.String())
	}
	if w := doGet(t, r, location); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	gdb, _, r := setupRouterTest(t)
	seedUser(t, gdb, "alice", "secret")
	cookies := login(t, r, "alice", "secret")

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing title", url.Values{"content": {"body"}}},
		{"missing content", url.Values{"title": {"T"}}},
		{"bad status", url.Values{"title": {"T"}, "content": {"body"}, "status": {"archived"}}},
		{"title too long", url.Values{"title": {strings.Repeat("x", 201)}, "content": {"body"}}},
	}
	for _, tc := range cases {
		w := postForm(t, r, "/create/", tc.form, cookies)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestEditByNonAuthorIsNotFound(t *testing.T) {
	gdb, api, r := setupRouterTest(t)
	alice := seedUser(t, gdb, "alice", "secret")
	seedUser(t, gdb, "bob", "secret")

	post := seedPost(t, api, service.PostInput{
		Title:   "Owned by Alice",
		Content: "body",
		Status:  "published",
		UserID:  alice.ID,
	})

	cookies := login(t, r, "bob", "secret")
	w := postForm(t, r, "/"+post.Slug+"/edit/", url.Values{
		"title":   {"Hijacked"},
		"content": {"body"},
	}, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-author edit, got %d", w.Code)
	}

	w = postForm(t, r, "/"+post.Slug+"/delete/", nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-author delete, got %d", w.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	gdb, _, r := setupRouterTest(t)
	seedUser(t, gdb, "alice", "secret")
	cookies := login(t, r, "alice", "secret")

	req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 after logout, got %d", w.Code)
	}

	// The cleared cookie no longer authenticates.
	cleared := w.Result().Cookies()
	if len(cleared) == 0 {
		t.Fatal("expected logout to rewrite the session cookie")
	}
	w2 := postForm(t, r, "/create/", url.Values{"title": {"T"}, "content": {"body"}}, cleared)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w2.Code)
	}
}
