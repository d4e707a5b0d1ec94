// SPDX-License-Identifier: MIT
package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCSRFIssuesTokenOnGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	CSRFMiddleware(false)(c)

	if c.IsAborted() {
		t.Fatal("GET should not be blocked")
	}
	token := GetCSRFToken(c)
	if token == "" {
		t.Fatal("Expected a CSRF token in context")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), csrfCookieName+"="+token) {
		t.Error("Expected CSRF cookie to be set")
	}
	if html := GetCSRFTokenHTML(c); !strings.Contains(html, `value="`+token+`"`) {
		t.Errorf("Unexpected hidden input: %s", html)
	}
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/session/invert", nil)
	c.Request.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "expected"})

	CSRFMiddleware(false)(c)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

func TestCSRFAcceptsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/api/session/customization", nil)
	c.Request.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "expected"})
	c.Request.Header.Set(csrfHeaderName, "expected")

	CSRFMiddleware(false)(c)

	if c.IsAborted() {
		t.Errorf("Request with matching header should pass, got %d", w.Code)
	}
}

func TestCSRFAcceptsFormField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	form := url.Values{csrfFormField: {"expected"}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/session/reset", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "expected"})

	CSRFMiddleware(false)(c)

	if c.IsAborted() {
		t.Errorf("Request with matching form field should pass, got %d", w.Code)
	}
}

func TestGetCSRFTokenHTMLWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if html := GetCSRFTokenHTML(c); html != "" {
		t.Errorf("Expected empty string, got %q", html)
	}
}
