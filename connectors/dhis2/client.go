package dhis2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"osa-stats/domain/config"
	d2 "osa-stats/domain/dhis2"
	"osa-stats/domain/osa"
)

// Package dhis2 is a minimal DHIS2 Web API connector. It pulls analytics tables and
// tabular resources (SQL views) and reports any failure as an osa.FetchError.

const (
	acceptJSON   = "application/json"
	maxErrorBody = 2048
	// tokenType is the Authorization scheme DHIS2 expects for personal access tokens.
	tokenType = "ApiToken"
)

// Client is a thin wrapper over http.Client bound to one DHIS2 API base URL.
type Client struct {
	c        *http.Client
	baseURL  string
	username string
	password string
}

// New returns a client for baseURL (e.g. https://hmis.example.org/api). A nil c gets a
// default client with a 60s timeout.
func New(c *http.Client, baseURL string) *Client {
	if c == nil {
		c = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{c: c, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewFromConfig builds a client from the dhis2 config section. A token takes precedence
// over basic credentials and is attached through an oauth2 transport.
func NewFromConfig(ctx context.Context, cfg config.DHIS2) *Client {
	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: tokenType})
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = cfg.Timeout
	cl := New(hc, cfg.BaseURL)
	if cfg.Token == "" {
		cl.username, cl.password = cfg.Username, cfg.Password
	}
	return cl
}

// WithBasicAuth sets basic credentials sent with every request.
func (dc *Client) WithBasicAuth(username, password string) *Client {
	dc.username, dc.password = username, password
	return dc
}

func (dc *Client) newRequest(ctx context.Context, method, resource string) (*http.Request, error) {
	rawURL := dc.baseURL + "/" + strings.TrimLeft(resource, "/")
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptJSON)
	if dc.username != "" {
		req.SetBasicAuth(dc.username, dc.password)
	}
	return req, nil
}

// getJSON performs one GET and decodes the body into out. There are no retries.
func (dc *Client) getJSON(ctx context.Context, resource string, out any) error {
	req, err := dc.newRequest(ctx, http.MethodGet, resource)
	if err != nil {
		return &osa.FetchError{Resource: resource, Err: err}
	}
	resp, err := dc.c.Do(req)
	if err != nil {
		return &osa.FetchError{Resource: resource, Err: err}
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &osa.FetchError{Resource: resource, StatusCode: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &osa.FetchError{Resource: resource, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, rc)
	return rc.Close()
}

// Analytics runs an analytics query.
func (dc *Client) Analytics(ctx context.Context, q d2.AnalyticsQuery) (*d2.Analytics, error) {
	slog.Info("phase.analytics.fetch.start", "dx", len(q.DataElements), "ou", q.OrgUnit, "pe", strings.Join(q.Periods, ";"))
	var out d2.Analytics
	if err := dc.getJSON(ctx, "analytics.json?"+q.Values().Encode(), &out); err != nil {
		slog.Error("phase.analytics.fetch.error", "error", err)
		return nil, err
	}
	slog.Info("phase.analytics.fetch.done", "rows", len(out.Rows), "orgUnits", out.OrgUnitCount())
	return &out, nil
}

// Grid fetches a tabular resource such as sqlViews/<id>/data.json. Both the bare
// {headers, rows} shape and the {listGrid: {...}} wrapper are accepted.
func (dc *Client) Grid(ctx context.Context, resource string) (*d2.Grid, error) {
	slog.Info("phase.facilities.fetch.start", "resource", resource)
	var out struct {
		d2.Grid
		ListGrid *d2.Grid `json:"listGrid"`
	}
	if err := dc.getJSON(ctx, resource, &out); err != nil {
		slog.Error("phase.facilities.fetch.error", "resource", resource, "error", err)
		return nil, err
	}
	g := out.Grid
	if out.ListGrid != nil {
		g = *out.ListGrid
	}
	slog.Info("phase.facilities.fetch.done", "rows", len(g.Rows), "columns", len(g.Headers))
	return &g, nil
}
