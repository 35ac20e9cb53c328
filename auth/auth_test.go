package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionRequest(t *testing.T, createWith uint) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, createWith)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	req := sessionRequest(t, 42)
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d ok=%v", uid, ok)
	}
}

func TestSessionTamperedSignature(t *testing.T) {
	req := sessionRequest(t, 42)
	c, _ := req.Cookie("session")
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: "session", Value: "43." + c.Value[len("42."):]})
	if _, ok := ParseSession(req2); ok {
		t.Fatal("tampered cookie must not parse")
	}
}

func TestRequireAuthDeniesWithoutSession(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// JSON clients get a 401.
	req := httptest.NewRequest(http.MethodGet, "/tariffs", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	// Browsers get redirected to the login page.
	htmlReq := httptest.NewRequest(http.MethodGet, "/tariffs", nil)
	htmlReq.Header.Set("Accept", "text/html")
	htmlW := httptest.NewRecorder()
	h.ServeHTTP(htmlW, htmlReq)
	if htmlW.Code != http.StatusSeeOther || htmlW.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", htmlW.Code, htmlW.Header().Get("Location"))
	}
}

func TestRequireAuthVerifier(t *testing.T) {
	SetUserVerifier(func(ctx context.Context, uid uint) bool { return uid == 1 })
	defer SetUserVerifier(nil)

	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	ok := sessionRequest(t, 1)
	ok.Header.Set("Accept", "application/json")
	okW := httptest.NewRecorder()
	h.ServeHTTP(okW, ok)
	if okW.Code != http.StatusOK {
		t.Fatalf("verified user: expected 200 got %d", okW.Code)
	}

	// A session whose user the verifier rejects is cleared and denied.
	gone := sessionRequest(t, 7)
	gone.Header.Set("Accept", "application/json")
	goneW := httptest.NewRecorder()
	h.ServeHTTP(goneW, gone)
	if goneW.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: expected 401 got %d", goneW.Code)
	}
}
