package country

// Country is the normalized shape served by the API. It is derived from
// upstream records per request and never persisted.
type Country struct {
	Name       string   `json:"name"`
	CCA2       string   `json:"cca2"`
	CCA3       string   `json:"cca3"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Capital    []string `json:"capital"`
	Currencies []string `json:"currencies"`
	Languages  []string `json:"languages"`
}

type Filter struct {
	Name     string
	Region   string
	Currency string
	Language string
	// Raw query values; non-numeric bounds are ignored rather than rejected.
	MinPopulation string
	MaxPopulation string
}
