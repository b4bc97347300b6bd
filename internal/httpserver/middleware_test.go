package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"escrowfund/internal/auth"
)

func newAuthTestRouter(t *testing.T, tokens *auth.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authed := r.Group("/")
	authed.Use(AuthMiddleware(tokens))
	authed.GET("/whoami", func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing from request context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": string(id)})
	})

	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(tokens), RequireRole("admin"))
	admin.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewManager("test-secret")
	r := newAuthTestRouter(t, tokens)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewManager("other-secret")
		token, err := other.GenerateToken("alice", "user")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token reaches handler with identity", func(t *testing.T) {
		token, err := tokens.GenerateToken("alice", "user")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		if body := w.Body.String(); body != `{"identity":"alice"}` {
			t.Fatalf("unexpected body %s", body)
		}
	})
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewManager("test-secret")
	r := newAuthTestRouter(t, tokens)

	t.Run("user role rejected", func(t *testing.T) {
		token, err := tokens.GenerateToken("alice", "user")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admin role allowed", func(t *testing.T) {
		token, err := tokens.GenerateToken("root", "admin")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
