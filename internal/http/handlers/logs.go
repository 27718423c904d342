package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/atlasgate/countryhub/internal/config"
	"github.com/atlasgate/countryhub/internal/domain/apilog"
	"github.com/gin-gonic/gin"
)

type LogStore interface {
	List(ctx context.Context, filter apilog.ListFilter, limit, offset int) ([]apilog.Entry, int, error)
}

type LogsHandler struct {
	logs LogStore
}

func NewLogsHandler(logs LogStore) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// List serves the access trail, newest first. The route is gated by
// RequireRole(ADMIN).
func (h *LogsHandler) List(ctx *gin.Context) {
	p := ParsePagination(ctx)

	var filter apilog.ListFilter

	if v := ctx.Query("userId"); v != "" {
		filter.UserID = &v
	}

	if v := ctx.Query("endpoint"); v != "" {
		filter.Endpoint = &v
	}

	if v := ctx.Query("method"); v != "" {
		m := strings.ToUpper(v)
		filter.Method = &m
	}

	if v := ctx.Query("from"); v != "" {
		t, err := parseTimeParam(v)

		if err != nil {
			RespondValidation(ctx, []Issue{{Path: "from", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"}})
			return
		}

		filter.From = &t
	}

	if v := ctx.Query("to"); v != "" {
		t, err := parseTimeParam(v)

		if err != nil {
			RespondValidation(ctx, []Issue{{Path: "to", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"}})
			return
		}

		filter.To = &t
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.logs.List(cctx, filter, p.Limit, p.Offset())

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, PagedBody(p, total, items))
}

func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", v)
}
