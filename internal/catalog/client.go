package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const contentPath = "/content-discovery/v2/organizations/%s/catalog-content"

// ClientConfig contains the settings for building a catalog Client.
type ClientConfig struct {
	BaseURL           string
	OrgID             string
	BearerToken       string
	RequestsPerSecond float64 // 0 disables request pacing
}

// Client performs authenticated, paginated calls against the catalog API.
//
// Every request carries the bearer token via an [oauth2] transport; page
// fetches are paced by an optional [rate.Limiter].
type Client struct {
	baseURL    string
	orgID      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a catalog Client. A nil httpClient gets an [oauth2]
// client carrying the configured bearer token; a nil logger discards output.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.BearerToken})
		httpClient = oauth2.NewClient(context.Background(), source)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		orgID:      cfg.OrgID,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// do performs one API call and classifies the result. Non-GET requests are
// sent as JSON; the read-only sync flow only issues GETs but the client
// supports other methods generically.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if method != http.MethodGet && payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	envelope := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	if resp.StatusCode >= 400 {
		return nil, newRemoteError(envelope)
	}

	return envelope, nil
}

// FetchPage retrieves one page of catalog content.
//
// TotalCount and PagingRequestID come from response headers, not the body;
// a missing x-total-count yields 0 so a caller's pagination loop terminates.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (*CatalogPage, error) {
	if req.Max <= 0 {
		req.Max = DefaultPageSize
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(req.Offset))
	query.Set("max", strconv.Itoa(req.Max))
	if req.UpdatedSince != "" {
		query.Set("updatedSince", req.UpdatedSince)
	}
	if req.PagingRequestID != "" {
		query.Set("pagingRequestId", req.PagingRequestID)
	}

	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf(contentPath, c.orgID), query, nil)
	if err != nil {
		return nil, err
	}

	var assets []Asset
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &assets); err != nil {
			return nil, &ParseError{Err: err}
		}
	}

	page := &CatalogPage{
		Assets:          assets,
		TotalCount:      headerInt(resp.Headers, HeaderTotalCount),
		PagingRequestID: resp.Headers.Get(HeaderPagingRequestID),
	}

	c.logger.Debug("fetched catalog page",
		"offset", req.Offset, "items", len(page.Assets), "total", page.TotalCount)

	return page, nil
}

// headerInt reads an integer header, defaulting to 0 when absent or malformed.
func headerInt(headers http.Header, name string) int {
	value, err := strconv.Atoi(headers.Get(name))
	if err != nil {
		return 0
	}
	return value
}
