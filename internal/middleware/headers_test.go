// SPDX-License-Identifier: MIT
package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/config"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.InitDefaults()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	SecurityHeadersMiddleware()(c)

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected nosniff header")
	}
	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "connect-src 'self' ws: wss:") {
		t.Errorf("CSP should allow the live preview socket, got %q", csp)
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should only be sent with TLS enabled")
	}
}

func TestHTTPSRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		port string
		want string
	}{
		{"443", "https://themer.example.com/api/session?x=1"},
		{"8443", "https://themer.example.com:8443/api/session?x=1"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "http://themer.example.com:8080/api/session?x=1", nil)

		HTTPSRedirectMiddleware(tt.port)(c)

		if w.Code != http.StatusMovedPermanently {
			t.Errorf("Expected 301, got %d", w.Code)
		}
		if got := w.Header().Get("Location"); got != tt.want {
			t.Errorf("Expected redirect to %s, got %s", tt.want, got)
		}
	}
}

func TestHTTPSRedirectSkipsACME(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "http://themer.example.com/.well-known/acme-challenge/abc", nil)

	HTTPSRedirectMiddleware("443")(c)

	if c.IsAborted() {
		t.Error("ACME challenges should not be redirected")
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/missing", nil))

	line := buf.String()
	for _, want := range []string{`"level":"warn"`, `"path":"/missing"`, `"status":404`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}
