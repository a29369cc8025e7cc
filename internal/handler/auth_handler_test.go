package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

// --- モック定義 ---

type mockTokenIssuer struct {
	issueFn func(identity string) (string, error)
}

func (m *mockTokenIssuer) Issue(identity string) (string, error) {
	return m.issueFn(identity)
}

// --- テスト ---

// トークン発行でHTTP Only Cookieが設定されることを検証
func TestAuthHandler_IssueToken_SetsHTTPOnlyCookie(t *testing.T) {
	var gotIdentity string
	issuer := &mockTokenIssuer{
		issueFn: func(identity string) (string, error) {
			gotIdentity = identity
			return "signed-token", nil
		},
	}
	h := NewAuthHandler(issuer, AuthHandlerConfig{TokenMaxAge: 3600})

	body := []byte(`{"email":"a@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.IssueToken(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotIdentity != "a@example.com" {
		t.Errorf("identity = %q, want %q", gotIdentity, "a@example.com")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || c.Value != "signed-token" {
		t.Errorf("cookie = %s=%s, want token=signed-token", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if c.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
}

func TestAuthHandler_IssueToken_EmptyEmailReturns400(t *testing.T) {
	h := NewAuthHandler(&mockTokenIssuer{}, AuthHandlerConfig{})

	body := []byte(`{"email":""}`)
	req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.IssueToken(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no cookie on validation failure")
	}
}

func TestAuthHandler_IssueToken_InvalidBodyReturns400(t *testing.T) {
	h := NewAuthHandler(&mockTokenIssuer{}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	h.IssueToken(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// ログアウトでCookieが失効されることを検証
func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockTokenIssuer{}, AuthHandlerConfig{TokenMaxAge: 3600})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || c.Value != "" {
		t.Errorf("cookie = %s=%s, want empty token cookie", c.Name, c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative (expired)", c.MaxAge)
	}
}
