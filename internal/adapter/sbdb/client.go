// Package sbdb looks up Earth MOID values from the JPL Small-Body Database
// API, with request throttling and an LRU cache in front of the HTTP client.
package sbdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tanya221998/NASA-CEOS/internal/observability"
)

var (
	// outerParensRe strips a fully parenthesized designation,
	// e.g. "(2021 GT2)" -> "2021 GT2", as SBDB search dislikes the parens.
	outerParensRe = regexp.MustCompile(`^\((.*)\)$`)

	// numberRe pulls the leading numeric token out of MOID strings that
	// carry units or annotations, e.g. "0.0123 au".
	numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)
)

// Client implements domain.MOIDProvider against the SBDB API. Requests are
// spaced at least throttle apart; SBDB is an unauthenticated shared service
// and per-object lookups can number in the hundreds per run.
type Client struct {
	baseURL    string
	httpClient *http.Client
	throttle   time.Duration
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates an SBDB client.
func NewClient(baseURL string, timeout, throttle time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		throttle: throttle,
		clock:    clockwork.NewRealClock(),
		metrics:  metrics,
		logger:   logger,
	}
}

// LookupMOID returns the Earth MOID in au for a designation, or nil when
// SBDB has no MOID for the object.
func (c *Client) LookupMOID(ctx context.Context, designation string) (*float64, error) {
	if err := c.waitThrottle(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"sstr":     {cleanSearchString(designation)},
		"phys-par": {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.MOIDLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("sbdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.MOIDLookups.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sbdb API error: status %d: %s", resp.StatusCode, body)
	}

	var sbdbResp response
	if err := json.NewDecoder(resp.Body).Decode(&sbdbResp); err != nil {
		c.metrics.MOIDLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode sbdb response: %w", err)
	}

	moid := extractMOID(sbdbResp.Orbit)
	if moid == nil {
		c.metrics.MOIDLookups.WithLabelValues("empty").Inc()
		c.logger.Debug("sbdb has no moid", "designation", designation)
		return nil, nil
	}
	c.metrics.MOIDLookups.WithLabelValues("success").Inc()
	return moid, nil
}

// waitThrottle blocks until the throttle interval since the previous request
// has elapsed, or the context is cancelled.
func (c *Client) waitThrottle(ctx context.Context) error {
	if c.throttle <= 0 {
		return nil
	}

	c.mu.Lock()
	now := c.clock.Now()
	wait := c.throttle - now.Sub(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := c.clock.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// cleanSearchString trims, drops one pair of outer parentheses, and collapses
// internal whitespace so CAD designations work as SBDB search strings.
func cleanSearchString(s string) string {
	s = strings.TrimSpace(s)
	if m := outerParensRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.Join(strings.Fields(s), " ")
}

// SBDB response shape. The orbit block is decoded loosely because the API has
// shipped "elements" both as an object keyed by element name and as a list of
// {name, value} pairs, and MOID occasionally appears at the orbit level.
type response struct {
	Orbit orbit `json:"orbit"`
}

type orbit struct {
	Elements json.RawMessage `json:"elements"`
	MOID     any             `json:"moid"`
}

// extractMOID digs the Earth MOID out of an orbit block, handling all known
// element encodings. Returns nil when no MOID can be found.
func extractMOID(o orbit) *float64 {
	if len(o.Elements) > 0 {
		// Object-style elements: {"moid": "0.0123", ...}.
		var asMap map[string]any
		if err := json.Unmarshal(o.Elements, &asMap); err == nil {
			for _, key := range []string{"moid", "Earth MOID", "moid_au"} {
				if v, ok := asMap[key]; ok {
					if moid := coerceFloat(v); moid != nil {
						return moid
					}
				}
			}
		}

		// List-style elements: [{"name": "moid", "value": "0.0123"}, ...].
		var asList []map[string]any
		if err := json.Unmarshal(o.Elements, &asList); err == nil {
			for _, elem := range asList {
				name, _ := elem["name"].(string)
				name = strings.ToLower(strings.TrimSpace(name))
				if name != "moid" && name != "earth moid" {
					continue
				}
				if moid := coerceFloat(elem["value"]); moid != nil {
					return moid
				}
				if moid := coerceFloat(elem["val"]); moid != nil {
					return moid
				}
			}
		}
	}

	return coerceFloat(o.MOID)
}

// coerceFloat normalizes a JSON number or numeric string to *float64,
// tolerating unit suffixes. Returns nil when no number can be extracted.
func coerceFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return &f
		}
		if m := numberRe.FindString(val); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}
