// Package cad fetches close-approach tables from the JPL SSD CAD API.
package cad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
)

// Query bounds applied to every CAD request. The 0.2 au distance cap matches
// the feed's own definition of a "close" approach worth listing; the row
// limit is far above anything a 0.2 au / 30 day window produces.
const (
	maxDistAU = "0.2"
	rowLimit  = "2000"
)

// Client implements the close-approach fetch against the CAD API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CAD API client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchWindow requests all Earth close approaches inside the window and
// returns the raw column-oriented table. Any transport, status, or decode
// failure is returned as an error; no partial table is ever produced.
func (c *Client) FetchWindow(ctx context.Context, window domain.Window) (domain.RawTable, error) {
	params := url.Values{
		"date-min": {window.Start.Format("2006-01-02")},
		"date-max": {window.End.Format("2006-01-02")},
		"body":     {"Earth"},
		"dist-max": {maxDistAU},
		"sort":     {"date"},
		"limit":    {rowLimit},
		"fullname": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("cad request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.RawTable{}, fmt.Errorf("cad API error: status %d: %s", resp.StatusCode, body)
	}

	var cadResp response
	if err := json.NewDecoder(resp.Body).Decode(&cadResp); err != nil {
		return domain.RawTable{}, fmt.Errorf("decode cad response: %w", err)
	}

	table := domain.RawTable{
		Fields: cadResp.Fields,
		Rows:   make([][]string, len(cadResp.Data)),
	}
	for i, row := range cadResp.Data {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				cells[j] = *cell
			}
		}
		table.Rows[i] = cells
	}

	c.logger.Debug("cad window fetched",
		"date_min", params.Get("date-min"),
		"date_max", params.Get("date-max"),
		"rows", len(table.Rows),
	)
	return table, nil
}

// CAD API response shape. "count" is a string in current API versions but has
// been a number historically, so it is left undecoded; len(data) is
// authoritative. Null cells decode as nil.
type response struct {
	Fields []string    `json:"fields"`
	Data   [][]*string `json:"data"`
}
