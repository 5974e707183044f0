package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		origin, method string
		wantAllow      string
		wantCode       int
	}{
		{"https://app.example.com", http.MethodGet, "https://app.example.com", http.StatusOK},
		{"https://evil.example.com", http.MethodGet, "", http.StatusOK},
		{"https://app.example.com", http.MethodOptions, "https://app.example.com", http.StatusNoContent},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.wantCode {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.origin, tc.wantCode, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
			t.Errorf("%s %s: allow-origin %q, want %q", tc.method, tc.origin, got, tc.wantAllow)
		}
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("wildcard must echo any origin")
	}
}
