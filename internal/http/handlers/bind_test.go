package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlasgate/countryhub/internal/domain/user"
	"github.com/atlasgate/countryhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Message string `json:"message"`
	Issues  []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"issues"`
}

func bindPost(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.POST("/users", func(ctx *gin.Context) {
		var req user.CreateUserRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestBindJSON_ValidationIssuesUseJSONFieldNames(t *testing.T) {
	w := bindPost(t, `{"name":"A"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Message == "" {
		t.Fatal("expected a top-level message")
	}

	found := map[string]string{}
	for _, issue := range resp.Issues {
		found[issue.Path] = issue.Message
	}

	for _, path := range []string{"name", "email", "password"} {
		msg, ok := found[path]
		if !ok {
			t.Fatalf("missing issue for %q: %+v", path, resp.Issues)
		}
		if msg == "" {
			t.Fatalf("issue for %q should include a non-empty message", path)
		}
	}
}

func TestBindJSON_TypeMismatchNamesTheField(t *testing.T) {
	w := bindPost(t, `{"name":"Alice","email":"alice@example.com","password":123456}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if len(resp.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}

	if resp.Issues[0].Path != "password" {
		t.Fatalf("expected issues[0].path=password, got %q", resp.Issues[0].Path)
	}
}

func TestBindJSON_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "truncated", body: `{"name":`},
		{name: "empty", body: ``},
		{name: "not_an_object", body: `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bindPost(t, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}

			var resp bindErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
			}

			if len(resp.Issues) != 1 || resp.Issues[0].Path != "body" {
				t.Fatalf("expected a single body issue, got %+v", resp.Issues)
			}
		})
	}
}
