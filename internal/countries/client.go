package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotFound = errors.New("country not found")

// Restricted field set to keep upstream payloads small.
const fieldsParam = "name,cca2,cca3,region,subregion,population,capital,currencies,languages"

// RawCountry mirrors the upstream restcountries v3.1 record. Every field
// is optional; normalization supplies the defaults.
type RawCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2       string              `json:"cca2"`
	CCA3       string              `json:"cca3"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion"`
	Population int64               `json:"population"`
	Capital    []string            `json:"capital"`
	Currencies map[string]currency `json:"currencies"`
	Languages  map[string]string   `json:"languages"`
}

type currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchAll retrieves the full upstream country set in one GET. No retry;
// a failure surfaces to the caller as-is.
func (c *Client) FetchAll(ctx context.Context) ([]RawCountry, error) {
	u := c.baseURL + "/all?fields=" + fieldsParam

	body, err := c.get(ctx, u)

	if err != nil {
		return nil, err
	}

	var raw []RawCountry

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode countries payload: %w", err)
	}

	return raw, nil
}

// FetchByCode hits the dedicated single-resource endpoint instead of
// fetching the full set. An upstream 404 maps to ErrNotFound.
func (c *Client) FetchByCode(ctx context.Context, code string) (RawCountry, error) {
	u := c.baseURL + "/alpha/" + url.PathEscape(strings.ToUpper(code)) + "?fields=" + fieldsParam

	body, err := c.get(ctx, u)

	if err != nil {
		return RawCountry{}, err
	}

	// The alpha endpoint has returned both a bare object and a one-element
	// array across upstream versions; accept either.
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "[") {
		var list []RawCountry

		if err := json.Unmarshal(body, &list); err != nil {
			return RawCountry{}, fmt.Errorf("decode country payload: %w", err)
		}

		if len(list) == 0 {
			return RawCountry{}, ErrNotFound
		}

		return list[0], nil
	}

	var raw RawCountry

	if err := json.Unmarshal(body, &raw); err != nil {
		return RawCountry{}, fmt.Errorf("decode country payload: %w", err)
	}

	return raw, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
