package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlasgate/countryhub/internal/domain/apilog"
	"github.com/atlasgate/countryhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeLogStore struct {
	listFn func(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error)
}

func (f *fakeLogStore) List(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter, limit, offset)
	}

	return nil, 0, nil
}

func logsGet(t *testing.T, store *fakeLogStore, query string) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.GET("/logs", handlers.NewLogsHandler(store).List)

	req := httptest.NewRequest(http.MethodGet, "/logs"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestListLogs_FiltersPassThrough(t *testing.T) {
	var gotFilter apilog.ListFilter
	var gotLimit, gotOffset int

	store := &fakeLogStore{
		listFn: func(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error) {
			gotFilter = filter
			gotLimit = limit
			gotOffset = offset
			return []apilog.Entry{}, 0, nil
		},
	}

	w := logsGet(t, store, "?userId=user-1&endpoint=/countries&method=get&from=2026-01-01&to=2026-02-01T12:00:00Z&page=3&limit=20")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotFilter.UserID == nil || *gotFilter.UserID != "user-1" {
		t.Fatalf("userId filter not passed: %+v", gotFilter)
	}

	if gotFilter.Endpoint == nil || *gotFilter.Endpoint != "/countries" {
		t.Fatalf("endpoint filter not passed: %+v", gotFilter)
	}

	if gotFilter.Method == nil || *gotFilter.Method != "GET" {
		t.Fatalf("method should be uppercased, got %+v", gotFilter.Method)
	}

	wantFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if gotFilter.From == nil || !gotFilter.From.Equal(wantFrom) {
		t.Fatalf("from filter not parsed: %+v", gotFilter.From)
	}

	wantTo := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	if gotFilter.To == nil || !gotFilter.To.Equal(wantTo) {
		t.Fatalf("to filter not parsed: %+v", gotFilter.To)
	}

	if gotLimit != 20 || gotOffset != 40 {
		t.Fatalf("got limit=%d offset=%d, want 20/40", gotLimit, gotOffset)
	}
}

func TestListLogs_BadDates(t *testing.T) {
	store := &fakeLogStore{
		listFn: func(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error) {
			t.Fatal("store must not be reached on a bad date")
			return nil, 0, nil
		},
	}

	tests := []struct {
		name  string
		query string
	}{
		{name: "garbage_from", query: "?from=yesterday"},
		{name: "garbage_to", query: "?to=2026-13-45"},
		{name: "partial_timestamp", query: "?from=2026-01-01T10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := logsGet(t, store, tt.query)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestListLogs_EmptyFiltersStayNil(t *testing.T) {
	var gotFilter apilog.ListFilter

	store := &fakeLogStore{
		listFn: func(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error) {
			gotFilter = filter
			return []apilog.Entry{}, 0, nil
		},
	}

	w := logsGet(t, store, "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotFilter.UserID != nil || gotFilter.Endpoint != nil || gotFilter.Method != nil || gotFilter.From != nil || gotFilter.To != nil {
		t.Fatalf("expected zero filter, got %+v", gotFilter)
	}
}
