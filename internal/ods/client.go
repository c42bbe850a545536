// Package ods is a thin client for the Opendatasoft Explore v2.1 API, which
// serves the Toulouse Métropole open-data catalog.
package ods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL points at the Toulouse Métropole portal.
	DefaultBaseURL = "https://data.toulouse-metropole.fr/api/explore/v2.1"

	catalogPageSize  = 100
	recordsPageSize  = 100
	catalogHardLimit = 10_000
)

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// Field describes one column of a dataset.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Dataset is the catalog entry for one dataset.
type Dataset struct {
	DatasetID string                    `json:"dataset_id"`
	Fields    []Field                   `json:"fields"`
	Metas     map[string]map[string]any `json:"metas"`
}

// Title returns the dataset's display title, falling back to its id.
func (d Dataset) Title() string {
	if def, ok := d.Metas["default"]; ok {
		if title, ok := def["title"].(string); ok && title != "" {
			return title
		}
	}
	return d.DatasetID
}

type catalogPage struct {
	TotalCount int       `json:"total_count"`
	Results    []Dataset `json:"results"`
}

type recordsPage struct {
	TotalCount int              `json:"total_count"`
	Results    []map[string]any `json:"results"`
}

// Client calls the Explore API. Outbound requests go through a circuit
// breaker so a misbehaving portal stops being hammered; there is no retry
// loop, a failed call surfaces to the caller immediately.
type Client struct {
	baseURL string
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient returns a client for the given portal base URL, or the Toulouse
// portal when baseURL is empty.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ods",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		circuit: cb,
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", "meteo-toulouse/1.0")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// Datasets pages through the catalog and returns up to hardLimit entries
// (the portal-wide default when hardLimit <= 0).
func (c *Client) Datasets(ctx context.Context, hardLimit int) ([]Dataset, error) {
	if hardLimit <= 0 {
		hardLimit = catalogHardLimit
	}

	var all []Dataset
	offset := 0
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(catalogPageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page catalogPage
		if err := c.get(ctx, "/catalog/datasets", params, &page); err != nil {
			return nil, fmt.Errorf("catalog page at offset %d: %w", offset, err)
		}
		if len(page.Results) == 0 {
			break
		}

		for _, ds := range page.Results {
			all = append(all, ds)
			if len(all) >= hardLimit {
				return all, nil
			}
		}

		offset += len(page.Results)
		if offset >= page.TotalCount {
			break
		}
	}
	return all, nil
}

// DatasetInfo fetches the catalog entry for one dataset.
func (c *Client) DatasetInfo(ctx context.Context, datasetID string) (Dataset, error) {
	var ds Dataset
	if err := c.get(ctx, "/catalog/datasets/"+datasetID, nil, &ds); err != nil {
		return Dataset{}, fmt.Errorf("dataset %s: %w", datasetID, err)
	}
	return ds, nil
}

// RecordsQuery narrows a Records call. Zero values mean "no clause"; a
// MaxRows of 0 falls back to one page.
type RecordsQuery struct {
	Select  string
	Where   string
	OrderBy string
	MaxRows int
}

// Records pages through a dataset's rows and returns up to MaxRows of them.
func (c *Client) Records(ctx context.Context, datasetID string, q RecordsQuery) ([]map[string]any, error) {
	maxRows := q.MaxRows
	if maxRows <= 0 {
		maxRows = recordsPageSize
	}

	var rows []map[string]any
	offset := 0
	for {
		pageLimit := recordsPageSize
		if remaining := maxRows - len(rows); remaining < pageLimit {
			pageLimit = remaining
		}

		params := url.Values{}
		if q.Select != "" {
			params.Set("select", q.Select)
		}
		if q.Where != "" {
			params.Set("where", q.Where)
		}
		if q.OrderBy != "" {
			params.Set("order_by", q.OrderBy)
		}
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("offset", strconv.Itoa(offset))

		var page recordsPage
		if err := c.get(ctx, "/catalog/datasets/"+datasetID+"/records", params, &page); err != nil {
			return nil, fmt.Errorf("records of %s at offset %d: %w", datasetID, offset, err)
		}
		if len(page.Results) == 0 {
			break
		}

		rows = append(rows, page.Results...)
		if len(rows) >= maxRows {
			return rows[:maxRows], nil
		}

		offset += len(page.Results)
		if len(page.Results) < pageLimit {
			break
		}
	}
	return rows, nil
}
