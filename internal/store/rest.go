package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTClient talks to a PostgREST endpoint (the hosted database API) with a
// privileged service key.
type RESTClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for baseURL (the project URL; /rest/v1 is appended).
func NewRESTClient(baseURL, serviceKey string, httpClient *http.Client) *RESTClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTClient{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/rest/v1/",
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

// Insert creates rows and returns them as stored.
func (c *RESTClient) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}
	var out []Row
	if err := c.do(ctx, http.MethodPost, table, nil, rows, &out); err != nil {
		return nil, fmt.Errorf("store: insert %s: %w", table, err)
	}
	return out, nil
}

// Update applies patch to the rows matching eq and returns them.
func (c *RESTClient) Update(ctx context.Context, table string, eq Eq, patch Row) ([]Row, error) {
	if err := checkIdentifiers(table, eq.Column); err != nil {
		return nil, err
	}
	var out []Row
	if err := c.do(ctx, http.MethodPatch, table, filter(url.Values{}, &eq), patch, &out); err != nil {
		return nil, fmt.Errorf("store: update %s: %w", table, err)
	}
	return out, nil
}

// Delete removes the rows matching eq.
func (c *RESTClient) Delete(ctx context.Context, table string, eq Eq) error {
	if err := checkIdentifiers(table, eq.Column); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, table, filter(url.Values{}, &eq), nil, nil); err != nil {
		return fmt.Errorf("store: delete %s: %w", table, err)
	}
	return nil
}

// Select reads rows matching eq (all rows when eq is nil).
func (c *RESTClient) Select(ctx context.Context, table string, projection Projection, eq *Eq) ([]Row, error) {
	names := append([]string{table}, projection.identifiers()...)
	if eq != nil {
		names = append(names, eq.Column)
	}
	if err := checkIdentifiers(names...); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("select", selectClause(projection))
	var out []Row
	if err := c.do(ctx, http.MethodGet, table, filter(query, eq), nil, &out); err != nil {
		return nil, fmt.Errorf("store: select %s: %w", table, err)
	}
	return out, nil
}

func filter(query url.Values, eq *Eq) url.Values {
	if eq != nil {
		query.Set(eq.Column, "eq."+fmt.Sprint(eq.Value))
	}
	return query
}

// selectClause renders a projection in PostgREST syntax, e.g. "*,users(name,email)".
func selectClause(p Projection) string {
	parts := []string{"*"}
	if len(p.Columns) > 0 {
		parts = append([]string{}, p.Columns...)
	}
	for _, e := range p.Embeds {
		cols := "*"
		if len(e.Columns) > 0 {
			cols = strings.Join(e.Columns, ",")
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", e.Table, cols))
	}
	return strings.Join(parts, ",")
}

func (c *RESTClient) do(ctx context.Context, method, table string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusMultipleChoices {
		return decodeError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(res *http.Response) error {
	storeErr := &Error{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err := json.Unmarshal(raw, storeErr); err != nil || storeErr.Message == "" {
		storeErr.Message = strings.TrimSpace(string(raw))
	}
	return storeErr
}
