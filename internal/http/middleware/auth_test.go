package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(verify TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAuth(verify))
	r.GET("/protected", func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(func(string) (string, error) { return "s1", nil })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unauthorized") {
		t.Fatalf("expected unauthorized code in body: %s", w.Body.String())
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	r := newAuthRouter(func(string) (string, error) { return "s1", nil })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for Basic scheme, got %d", w.Code)
	}
}

func TestRequireAuth_VerifierRejects(t *testing.T) {
	r := newAuthRouter(func(string) (string, error) { return "", errors.New("bad token") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for rejected token, got %d", w.Code)
	}
}

func TestRequireAuth_Success_SetsUserID(t *testing.T) {
	var gotToken string
	r := newAuthRouter(func(tok string) (string, error) {
		gotToken = tok
		return "seller-42", nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer tok-abc") // scheme is case-insensitive
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotToken != "tok-abc" {
		t.Fatalf("verifier saw %q", gotToken)
	}
	if w.Body.String() != "seller-42" {
		t.Fatalf("handler saw userID %q", w.Body.String())
	}
}
