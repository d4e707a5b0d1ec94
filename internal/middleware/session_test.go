// SPDX-License-Identifier: MIT
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/auth"
	"github.com/thatcatcamp/themer/internal/sessions"
)

func newTestManager(t *testing.T) *sessions.Manager {
	m := sessions.NewManager(sessions.Config{Logger: zerolog.Nop()})
	t.Cleanup(m.Close)
	return m
}

func resolveSession(m *sessions.Manager, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	SessionResolutionMiddleware(m, zerolog.Nop())(c)
	return c, w
}

func TestSessionResolutionFromCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)

	session, err := m.Create(context.Background(), sessions.StartOptions{BaseThemeID: "dark"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	token, err := auth.GenerateToken(session.ID, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

	c, _ := resolveSession(m, req)
	if c.IsAborted() {
		t.Fatal("Middleware should not abort with a valid cookie")
	}

	got := GetSession(c)
	if got == nil {
		t.Fatal("Session should be set in context")
	}
	if got.ID != session.ID {
		t.Errorf("Expected session %s, got %s", session.ID, got.ID)
	}
	if c.GetString(sessionIDKey) != session.ID {
		t.Error("Session id should be set in context")
	}
}

func TestSessionResolutionFromBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)

	session, _ := m.Create(context.Background(), sessions.StartOptions{})
	token, _ := auth.GenerateToken(session.ID, time.Hour)

	req := httptest.NewRequest("GET", "/api/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	c, _ := resolveSession(m, req)
	if GetSession(c) == nil {
		t.Fatal("Session should be resolved from the Authorization header")
	}
}

func TestSessionResolutionIgnoresBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)

	unknown, _ := auth.GenerateToken("no-such-session", time.Hour)
	for name, token := range map[string]string{
		"malformed":       "not-a-jwt",
		"unknown session": unknown,
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

		c, _ := resolveSession(m, req)
		if c.IsAborted() {
			t.Errorf("%s: middleware should not abort", name)
		}
		if GetSession(c) != nil {
			t.Errorf("%s: no session should be set", name)
		}
	}
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/session", nil)

	RequireSession()(c)
	if !c.IsAborted() {
		t.Error("RequireSession should abort without a session")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}

	m := newTestManager(t)
	session, _ := m.Create(context.Background(), sessions.StartOptions{})

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest("GET", "/api/session", nil)
	SetSession(c2, session)

	RequireSession()(c2)
	if c2.IsAborted() {
		t.Error("RequireSession should pass with a session")
	}
}
