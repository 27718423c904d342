package countries

import (
	"strconv"
	"strings"

	"github.com/atlasgate/countryhub/internal/domain/country"
)

// ApplyFilters narrows the list by the optional query predicates. Filters
// are independent and conjunctive. Non-numeric population bounds are
// ignored rather than rejected.
func ApplyFilters(items []country.Country, f country.Filter) []country.Country {
	out := items

	if f.Name != "" {
		n := strings.ToLower(f.Name)
		out = keep(out, func(c country.Country) bool {
			return strings.Contains(strings.ToLower(c.Name), n)
		})
	}

	if f.Region != "" {
		r := strings.ToLower(f.Region)
		out = keep(out, func(c country.Country) bool {
			return strings.ToLower(c.Region) == r
		})
	}

	if f.Currency != "" {
		cur := strings.ToUpper(f.Currency)
		out = keep(out, func(c country.Country) bool {
			for _, code := range c.Currencies {
				if strings.ToUpper(code) == cur {
					return true
				}
			}
			return false
		})
	}

	if f.Language != "" {
		lang := strings.ToLower(f.Language)
		out = keep(out, func(c country.Country) bool {
			for _, l := range c.Languages {
				if strings.ToLower(l) == lang {
					return true
				}
			}
			return false
		})
	}

	if f.MinPopulation != "" {
		if minP, err := strconv.ParseInt(f.MinPopulation, 10, 64); err == nil {
			out = keep(out, func(c country.Country) bool {
				return c.Population >= minP
			})
		}
	}

	if f.MaxPopulation != "" {
		if maxP, err := strconv.ParseInt(f.MaxPopulation, 10, 64); err == nil {
			out = keep(out, func(c country.Country) bool {
				return c.Population <= maxP
			})
		}
	}

	return out
}

func keep(items []country.Country, pred func(country.Country) bool) []country.Country {
	out := make([]country.Country, 0, len(items))

	for _, c := range items {
		if pred(c) {
			out = append(out, c)
		}
	}

	return out
}
