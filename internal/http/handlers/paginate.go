package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page/limit from the query: 1-indexed page, limit
// clamped to [1,50] with a default of 10. Garbage values fall back to the
// defaults rather than erroring.
func ParsePagination(ctx *gin.Context) Pagination {
	page := toInt(ctx.Query("page"), 1)

	if page < 1 {
		page = 1
	}

	limit := toInt(ctx.Query("limit"), defaultLimit)

	if limit < 1 {
		limit = 1
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// PagedBody is the uniform list envelope.
func PagedBody(p Pagination, total int, items interface{}) gin.H {
	return gin.H{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"items": items,
	}
}

func toInt(v string, def int) int {
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)

	if err != nil {
		return def
	}

	return n
}
