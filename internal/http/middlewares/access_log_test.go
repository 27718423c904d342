package middlewares_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/atlasgate/countryhub/internal/auth"
	"github.com/atlasgate/countryhub/internal/domain/apilog"
	"github.com/atlasgate/countryhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type fakeLogWriter struct {
	mu      sync.Mutex
	entries []apilog.Entry
	err     error
}

func (f *fakeLogWriter) Insert(_ context.Context, e apilog.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeLogWriter) all() []apilog.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]apilog.Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccessLogRouter(writer middlewares.LogWriter, manager *auth.Manager) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.NewAccessLog(writer, manager, discardLogger()).Middleware())
	r.Use(gin.Recovery())

	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	return r
}

func TestAccessLogRecordsRequest(t *testing.T) {
	writer := &fakeLogWriter{}
	manager := auth.NewManager(testSecret, time.Hour)
	r := newAccessLogRouter(writer, manager)

	req := httptest.NewRequest(http.MethodGet, "/ok?x=1", nil)
	req.Header.Set("User-Agent", "test-agent")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entries := writer.all()

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]

	if e.Method != http.MethodGet {
		t.Fatalf("got method %q", e.Method)
	}

	if e.Path != "/ok?x=1" {
		t.Fatalf("got path %q, want /ok?x=1", e.Path)
	}

	if e.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", e.StatusCode)
	}

	if e.UserID != nil {
		t.Fatalf("anonymous request attributed to user %v", *e.UserID)
	}

	if e.UserAgent == nil || *e.UserAgent != "test-agent" {
		t.Fatalf("got user agent %v", e.UserAgent)
	}

	if e.DurationMs < 0 {
		t.Fatalf("got negative duration %d", e.DurationMs)
	}
}

func TestAccessLogResolvesIdentityBestEffort(t *testing.T) {
	writer := &fakeLogWriter{}
	manager := auth.NewManager(testSecret, time.Hour)
	r := newAccessLogRouter(writer, manager)

	token, err := manager.GenerateToken("user-9", "x@example.com", "USER")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantUserID *string
	}{
		{name: "valid_token", authHeader: "Bearer " + token, wantUserID: strPtr("user-9")},
		{name: "invalid_token", authHeader: "Bearer garbage", wantUserID: nil},
		{name: "no_token", authHeader: "", wantUserID: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(writer.all())

			req := httptest.NewRequest(http.MethodGet, "/ok", nil)

			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// a bad token never blocks the request
			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", w.Code)
			}

			entries := writer.all()

			if len(entries) != before+1 {
				t.Fatalf("got %d new entries, want 1", len(entries)-before)
			}

			e := entries[len(entries)-1]

			if tt.wantUserID == nil {
				if e.UserID != nil {
					t.Fatalf("got user id %v, want nil", *e.UserID)
				}
			} else if e.UserID == nil || *e.UserID != *tt.wantUserID {
				t.Fatalf("got user id %v, want %v", e.UserID, *tt.wantUserID)
			}
		})
	}
}

func TestAccessLogRecordsUnmatchedAndPanicRoutes(t *testing.T) {
	writer := &fakeLogWriter{}
	manager := auth.NewManager(testSecret, time.Hour)
	r := newAccessLogRouter(writer, manager)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := writer.all()

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].StatusCode != http.StatusNotFound {
		t.Fatalf("unmatched route logged status %d, want 404", entries[0].StatusCode)
	}

	if entries[1].StatusCode != http.StatusInternalServerError {
		t.Fatalf("panicking route logged status %d, want 500", entries[1].StatusCode)
	}
}

func TestAccessLogWriteFailureDoesNotAffectResponse(t *testing.T) {
	writer := &fakeLogWriter{err: errors.New("db down")}
	manager := auth.NewManager(testSecret, time.Hour)
	r := newAccessLogRouter(writer, manager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 despite log failure", w.Code)
	}
}

func TestAccessLogStoresFullPath(t *testing.T) {
	writer := &fakeLogWriter{}
	manager := auth.NewManager(testSecret, time.Hour)
	r := newAccessLogRouter(writer, manager)

	// a query string well past any log-line truncation threshold
	long := "/ok?q="
	for len(long) < 500 {
		long += "aaaaaaaaaa"
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, long, nil))

	entries := writer.all()

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	if entries[0].Path != long {
		t.Fatalf("stored path length %d, want the full %d-byte original", len(entries[0].Path), len(long))
	}
}

func strPtr(s string) *string {
	return &s
}
