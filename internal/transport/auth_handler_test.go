package transport

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"m-cosmetics/internal/middleware"
)

func registrationForm(username, email string) url.Values {
	return url.Values{
		"username":   {username},
		"email":      {email},
		"first_name": {"Rudo"},
		"password1":  {testPassword},
		"password2":  {testPassword},
	}
}

func TestRegister_SignsIn(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/register/", registrationForm("rudo", "rudo@example.com"))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to catalog, got %d %q (%s)", w.Code, w.Header().Get("Location"), w.Body.String())
	}

	session := responseCookie(w, "sessionid")
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", session)
	}

	next := h.do(http.MethodGet, "/", nil, session, responseCookie(w, "messages"))
	view, _ := decodeView[ProductListResponse](t, next)
	if !view.Viewer.Authenticated || view.Viewer.Username != "rudo" || view.Viewer.IsAdmin {
		t.Fatalf("expected the new customer to be signed in, got %+v", view.Viewer)
	}
	if len(view.Messages) != 1 || view.Messages[0].Text != "Account created successfully! Welcome to M Cosmetics." {
		t.Fatalf("expected a welcome notice, got %+v", view.Messages)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.createUser("existing", false)

	w := h.do(http.MethodPost, "/register/", registrationForm("newcomer", "existing@example.com"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if responseCookie(w, "sessionid") != nil {
		t.Fatalf("a rejected registration must not start a session")
	}

	total, _ := h.db.Users().Count(context.Background())
	if total != 1 {
		t.Fatalf("expected no new account, got %d", total)
	}
}

func TestRegister_AlreadySignedIn(t *testing.T) {
	h := newHarness(t)
	cookie := h.signIn("member", false)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := h.do(method, "/register/", registrationForm("other", "other@example.com"), cookie)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
			t.Fatalf("%s: expected redirect to catalog, got %d", method, w.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.createUser("nyasha", false)

	form := url.Values{"username": {"nyasha"}, "password": {testPassword}}
	w := h.do(http.MethodPost, "/login/?next=%2Fcart%2F", form)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/cart/" {
		t.Fatalf("expected redirect to next, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if responseCookie(w, "sessionid") == nil {
		t.Fatalf("expected a session cookie")
	}

	w = h.do(http.MethodPost, "/login/?next=%2F%2Fevil.example.com", form)
	if w.Header().Get("Location") != "/" {
		t.Fatalf("an off-site next must fall back to the catalog, got %q", w.Header().Get("Location"))
	}

	w = h.do(http.MethodPost, "/login/", url.Values{"username": {"nyasha"}, "password": {"wrong"}})
	if w.Code != http.StatusUnauthorized || responseCookie(w, "sessionid") != nil {
		t.Fatalf("expected 401 without a session, got %d", w.Code)
	}

	w = h.do(http.MethodPost, "/login/", url.Values{"username": {"nyasha"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing password, got %d", w.Code)
	}
}

func TestLogin_JSON(t *testing.T) {
	h := newHarness(t)
	h.createUser("tendai", false)

	w := h.doJSON(http.MethodPost, "/login/", `{"username":"tendai","password":"`+testPassword+`"}`)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	cookie := h.signIn("farai", false)

	w := h.do(http.MethodPost, "/logout/", nil, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to catalog, got %d", w.Code)
	}
	if cleared := responseCookie(w, "sessionid"); cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared")
	}

	// The old token no longer resolves
	w = h.do(http.MethodGet, "/", nil, cookie)
	view, _ := decodeView[ProductListResponse](t, w)
	if view.Viewer.Authenticated {
		t.Fatalf("expected anonymous viewer after logout")
	}

	if w := h.do(http.MethodGet, "/logout/", nil, cookie); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("logout must require POST, got %d", w.Code)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                        middleware.CatalogPath,
		"/admin/":                 "/admin/",
		"/admin/products/?page=2": "/admin/products/?page=2",
		"//evil.example.com":      middleware.CatalogPath,
		"/\\evil.example.com":     middleware.CatalogPath,
		"https://evil.example":    middleware.CatalogPath,
		"admin/":                  middleware.CatalogPath,
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
