package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlasgate/countryhub/internal/auth"
	"github.com/atlasgate/countryhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "middleware-test-secret"

func newProtectedRouter(m *middlewares.AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		role, _ := middlewares.RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	r.GET("/protected", chain...)

	return r
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewManager(testSecret, time.Hour)

	valid, err := manager.GenerateToken("user-1", "a@example.com", "USER")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	expired, err := auth.NewManager(testSecret, -time.Minute).GenerateToken("user-1", "a@example.com", "USER")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name           string
		header         string
		wantStatusCode int
	}{
		{name: "missing_header", header: "", wantStatusCode: http.StatusUnauthorized},
		{name: "not_bearer", header: "Basic abc", wantStatusCode: http.StatusUnauthorized},
		{name: "empty_token", header: "Bearer ", wantStatusCode: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer garbage", wantStatusCode: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expired, wantStatusCode: http.StatusUnauthorized},
		{name: "valid_token", header: "Bearer " + valid, wantStatusCode: http.StatusOK},
	}

	r := newProtectedRouter(middlewares.NewAuthMiddleware(manager))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewManager(testSecret, time.Hour)
	m := middlewares.NewAuthMiddleware(manager)

	adminToken, err := manager.GenerateToken("admin-1", "admin@example.com", "ADMIN")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	userToken, err := manager.GenerateToken("user-1", "user@example.com", "USER")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name           string
		token          string
		wantStatusCode int
	}{
		{name: "admin_allowed", token: adminToken, wantStatusCode: http.StatusOK},
		{name: "user_forbidden", token: userToken, wantStatusCode: http.StatusForbidden},
	}

	r := newProtectedRouter(m, m.RequireRole("ADMIN"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
