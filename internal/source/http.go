// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/staranto/ferryctl/internal/catalog"
)

// DefaultCatalogPath is where the static catalogs are served, relative to the
// base URL. %s is the season.
const DefaultCatalogPath = "/api/static/catalogs/%s.json"

// HTTP fetches season catalogs with a GET per season.
type HTTP struct {
	BaseURL string
	// PathFormat defaults to DefaultCatalogPath.
	PathFormat string
	// Client defaults to a pooled cleanhttp client.
	Client *http.Client
}

// NewHTTP returns an HTTP source rooted at baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  cleanhttp.DefaultPooledClient(),
	}
}

// URL returns the catalog URL for season.
func (h *HTTP) URL(season catalog.Season) string {
	format := h.PathFormat
	if format == "" {
		format = DefaultCatalogPath
	}
	return h.BaseURL + fmt.Sprintf(format, url.PathEscape(string(season)))
}

// Fetch implements catalog.Source.
func (h *HTTP) Fetch(ctx context.Context, season catalog.Season) ([]catalog.RawRecord, error) {
	u := h.URL(season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &catalog.NetworkError{Season: season, URL: u, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}

	log.Debugf("GET %s", u)
	resp, err := client.Do(req)
	if err != nil {
		return nil, &catalog.NetworkError{Season: season, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &catalog.NetworkError{Season: season, URL: u, StatusCode: resp.StatusCode}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, &catalog.NetworkError{
			Season:     season,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	return Decode(season, doc.Bytes())
}
