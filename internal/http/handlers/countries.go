package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/atlasgate/countryhub/internal/countries"
	"github.com/atlasgate/countryhub/internal/domain/country"
	"github.com/gin-gonic/gin"
)

type CountryProvider interface {
	All(ctx context.Context) ([]country.Country, error)
	ByCode(ctx context.Context, code string) (country.Country, error)
}

type CountriesHandler struct {
	provider CountryProvider
}

func NewCountriesHandler(provider CountryProvider) *CountriesHandler {
	return &CountriesHandler{provider: provider}
}

func (h *CountriesHandler) List(ctx *gin.Context) {
	p := ParsePagination(ctx)

	filter := country.Filter{
		Name:          ctx.Query("name"),
		Region:        ctx.Query("region"),
		Currency:      ctx.Query("currency"),
		Language:      ctx.Query("language"),
		MinPopulation: ctx.Query("minPopulation"),
		MaxPopulation: ctx.Query("maxPopulation"),
	}

	// the upstream client carries its own 10s timeout
	items, err := h.provider.All(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	filtered := countries.ApplyFilters(items, filter)

	total := len(filtered)
	start := p.Offset()

	if start > total {
		start = total
	}

	end := start + p.Limit

	if end > total {
		end = total
	}

	ctx.JSON(http.StatusOK, PagedBody(p, total, filtered[start:end]))
}

func (h *CountriesHandler) Get(ctx *gin.Context) {
	code := ctx.Param("code")

	c, err := h.provider.ByCode(ctx.Request.Context(), code)

	if err != nil {
		if errors.Is(err, countries.ErrNotFound) {
			RespondNotFound(ctx, "Not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c)
}
