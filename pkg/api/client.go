// Package api is a small client for the Flavortown REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
	"github.com/vanderheijden86/flavortown/pkg/version"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// DefaultConcurrency bounds parallel detail fetches.
const DefaultConcurrency = 4

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// ErrUnauthorized is matched by errors.Is for 401 and 403 responses.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is reports auth failures as ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithConcurrency sets how many detail requests run at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Client talks to the Flavortown API with a bearer token.
type Client struct {
	baseURL     *url.URL
	apiKey      string
	http        *http.Client
	concurrency int
	userAgent   string
}

// New creates a client for baseURL. An empty apiKey sends no Authorization
// header.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:     u,
		apiKey:      apiKey,
		http:        &http.Client{Timeout: DefaultTimeout},
		concurrency: DefaultConcurrency,
		userAgent:   "flavortown-cli/" + version.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Projects lists projects. A page below 1 and an empty query are omitted.
func (c *Client) Projects(ctx context.Context, page int, query string) ([]model.Project, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if query != "" {
		q.Set("query", query)
	}
	body, err := c.get(ctx, "/projects", q)
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Project](body, "projects", "data", "items")
}

// Project fetches one project.
func (c *Client) Project(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Devlogs lists the devlogs of a project.
func (c *Client) Devlogs(ctx context.Context, projectID string, page int) ([]model.Devlog, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	body, err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/devlogs", q)
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Devlog](body, "devlogs", "data", "items")
}

// Devlog fetches one devlog.
func (c *Client) Devlog(ctx context.Context, projectID, id string) (*model.Devlog, error) {
	var d model.Devlog
	path := "/projects/" + url.PathEscape(projectID) + "/devlogs/" + url.PathEscape(id)
	if err := c.getJSON(ctx, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// StoreItems fetches the full store catalog.
func (c *Client) StoreItems(ctx context.Context) ([]model.Item, error) {
	body, err := c.get(ctx, "/store", nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Item](body, "items", "data")
}

// StoreItem fetches one store item with its detail fields.
func (c *Client) StoreItem(ctx context.Context, id model.ItemID) (*model.Item, error) {
	var item model.Item
	if err := c.getJSON(ctx, "/store/"+id.String(), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// StoreItemsByID fetches several items concurrently. Results are in the order
// of ids; the first failure cancels the rest.
func (c *Client) StoreItemsByID(ctx context.Context, ids []model.ItemID) ([]*model.Item, error) {
	out := make([]*model.Item, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			item, err := c.StoreItem(ctx, id)
			if err != nil {
				return fmt.Errorf("item %s: %w", id, err)
			}
			out[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	defer metrics.Timer(metrics.APIFetch)()

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	debug.Log("GET %s -> %d in %v", u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     http.MethodGet,
			Path:       path,
			Body:       errorMessage(snippet),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error
// body, falling back to the trimmed text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
