package countries

import (
	"sort"

	"github.com/atlasgate/countryhub/internal/domain/country"
)

// Normalize maps an upstream record to the served Country shape. Missing
// fields fall back to zero values and empty collections; it never fails.
func Normalize(raw RawCountry) country.Country {
	currencies := make([]string, 0, len(raw.Currencies))

	for code := range raw.Currencies {
		currencies = append(currencies, code)
	}

	languages := make([]string, 0, len(raw.Languages))

	for _, name := range raw.Languages {
		languages = append(languages, name)
	}

	// map iteration order is random; keep output stable
	sort.Strings(currencies)
	sort.Strings(languages)

	capital := raw.Capital

	if capital == nil {
		capital = []string{}
	}

	return country.Country{
		Name:       raw.Name.Common,
		CCA2:       raw.CCA2,
		CCA3:       raw.CCA3,
		Region:     raw.Region,
		Subregion:  raw.Subregion,
		Population: raw.Population,
		Capital:    capital,
		Currencies: currencies,
		Languages:  languages,
	}
}

func NormalizeAll(raw []RawCountry) []country.Country {
	out := make([]country.Country, 0, len(raw))

	for _, r := range raw {
		out = append(out, Normalize(r))
	}

	return out
}
