// Package client is a typed Go client for the brewjournal HTTP API.
package client

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

	"github.com/google/go-querystring/query"

	"tangled.org/arabica.social/brewjournal/internal/journal"
	"tangled.org/arabica.social/brewjournal/internal/models"
	"tangled.org/arabica.social/brewjournal/internal/suggestions"
)

// DefaultBaseURL is where a locally started server listens
const DefaultBaseURL = "http://localhost:18910"

// APIError is returned for any non-2xx reply
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("brewjournal: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("brewjournal: %d: %s", e.StatusCode, e.Message)
}

// Client talks to one brewjournal server
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BeanListOptions filters ListBeans
type BeanListOptions struct {
	Status string `url:"status,omitempty"`
	Query  string `url:"q,omitempty"`
}

// BrewListOptions filters ListBrews
type BrewListOptions struct {
	Query string `url:"q,omitempty"`
}

// ApplyOptions selects the bean a preset draft is for
type ApplyOptions struct {
	BeanID string `url:"beanId,omitempty"`
}

// SuggestOptions narrows auto-complete results
type SuggestOptions struct {
	Query string `url:"q,omitempty"`
	Limit int    `url:"limit,omitempty"`
}

type costOptions struct {
	BeanID string  `url:"beanId"`
	Dose   float64 `url:"dose"`
}

// endpoint joins an already escaped path onto the base URL.
func (c *Client) endpoint(path string, opts interface{}) (string, error) {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	u.Path = unescaped
	if opts != nil {
		v, err := query.Values(opts)
		if err != nil {
			return "", fmt.Errorf("encoding query: %w", err)
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

// do sends a request and decodes a JSON reply into out, when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, opts, body, out interface{}) error {
	reqURL, err := c.endpoint(path, opts)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.send(ctx, method, reqURL, "application/json", reader, out)
}

func (c *Client) send(ctx context.Context, method, reqURL, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

// Beans

func (c *Client) ListBeans(ctx context.Context, opts *BeanListOptions) ([]*models.Bean, error) {
	var beans []*models.Bean
	if opts == nil {
		opts = &BeanListOptions{}
	}
	err := c.do(ctx, http.MethodGet, "/api/beans", opts, nil, &beans)
	return beans, err
}

func (c *Client) GetBean(ctx context.Context, id string) (*models.Bean, error) {
	var bean models.Bean
	if err := c.do(ctx, http.MethodGet, "/api/beans/"+escape(id), nil, nil, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

func (c *Client) CreateBean(ctx context.Context, req *models.CreateBeanRequest) (*models.Bean, error) {
	var bean models.Bean
	if err := c.do(ctx, http.MethodPost, "/api/beans", nil, req, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

func (c *Client) UpdateBean(ctx context.Context, id string, req *models.UpdateBeanRequest) (*models.Bean, error) {
	var bean models.Bean
	if err := c.do(ctx, http.MethodPut, "/api/beans/"+escape(id), nil, req, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

// SetBeanStatus archives or reactivates a bean.
func (c *Client) SetBeanStatus(ctx context.Context, id, status string) (*models.Bean, error) {
	var bean models.Bean
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/beans/"+escape(id)+"/status", nil, body, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

func (c *Client) DeleteBean(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/beans/"+escape(id), nil, nil, nil)
}

// Brews

func (c *Client) ListBrews(ctx context.Context, opts *BrewListOptions) ([]*models.Brew, error) {
	var brews []*models.Brew
	if opts == nil {
		opts = &BrewListOptions{}
	}
	err := c.do(ctx, http.MethodGet, "/api/brews", opts, nil, &brews)
	return brews, err
}

func (c *Client) GetBrew(ctx context.Context, id string) (*models.Brew, error) {
	var brew models.Brew
	if err := c.do(ctx, http.MethodGet, "/api/brews/"+escape(id), nil, nil, &brew); err != nil {
		return nil, err
	}
	return &brew, nil
}

func (c *Client) LogBrew(ctx context.Context, req *models.CreateBrewRequest) (*models.Brew, error) {
	var brew models.Brew
	if err := c.do(ctx, http.MethodPost, "/api/brews", nil, req, &brew); err != nil {
		return nil, err
	}
	return &brew, nil
}

func (c *Client) UpdateBrew(ctx context.Context, id string, req *models.CreateBrewRequest) (*models.Brew, error) {
	var brew models.Brew
	if err := c.do(ctx, http.MethodPut, "/api/brews/"+escape(id), nil, req, &brew); err != nil {
		return nil, err
	}
	return &brew, nil
}

func (c *Client) DeleteBrew(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/brews/"+escape(id), nil, nil, nil)
}

// Presets

func (c *Client) ListPresets(ctx context.Context) ([]*models.Preset, error) {
	var presets []*models.Preset
	err := c.do(ctx, http.MethodGet, "/api/presets", nil, nil, &presets)
	return presets, err
}

func (c *Client) GetPreset(ctx context.Context, id string) (*models.Preset, error) {
	var preset models.Preset
	if err := c.do(ctx, http.MethodGet, "/api/presets/"+escape(id), nil, nil, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (c *Client) CreatePreset(ctx context.Context, req *models.CreatePresetRequest) (*models.Preset, error) {
	var preset models.Preset
	if err := c.do(ctx, http.MethodPost, "/api/presets", nil, req, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (c *Client) UpdatePreset(ctx context.Context, id string, req *models.CreatePresetRequest) (*models.Preset, error) {
	var preset models.Preset
	if err := c.do(ctx, http.MethodPut, "/api/presets/"+escape(id), nil, req, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (c *Client) DeletePreset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/presets/"+escape(id), nil, nil, nil)
}

// ImportPresets stores a batch of presets. The server stores none of them if
// any is invalid.
func (c *Client) ImportPresets(ctx context.Context, reqs []models.CreatePresetRequest) ([]*models.Preset, error) {
	var presets []*models.Preset
	err := c.do(ctx, http.MethodPost, "/api/presets/import", nil, reqs, &presets)
	return presets, err
}

// ImportPresetsYAML uploads a preset seed file as-is.
func (c *Client) ImportPresetsYAML(ctx context.Context, r io.Reader) ([]*models.Preset, error) {
	reqURL, err := c.endpoint("/api/presets/import", nil)
	if err != nil {
		return nil, err
	}
	var presets []*models.Preset
	err = c.send(ctx, http.MethodPost, reqURL, "application/yaml", r, &presets)
	return presets, err
}

// ApplyPreset returns a brew draft built from the preset with the given id or
// recipe name.
func (c *Client) ApplyPreset(ctx context.Context, ref string, opts *ApplyOptions) (*models.CreateBrewRequest, error) {
	var draft models.CreateBrewRequest
	if opts == nil {
		opts = &ApplyOptions{}
	}
	if err := c.do(ctx, http.MethodGet, "/api/presets/"+escape(ref)+"/apply", opts, nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Cafe logs

func (c *Client) ListCafeLogs(ctx context.Context) ([]*models.CafeLog, error) {
	var logs []*models.CafeLog
	err := c.do(ctx, http.MethodGet, "/api/cafe-logs", nil, nil, &logs)
	return logs, err
}

func (c *Client) GroupedCafeLogs(ctx context.Context) ([]models.CafeGroup, error) {
	var groups []models.CafeGroup
	err := c.do(ctx, http.MethodGet, "/api/cafe-logs/grouped", nil, nil, &groups)
	return groups, err
}

func (c *Client) GetCafeLog(ctx context.Context, id string) (*models.CafeLog, error) {
	var entry models.CafeLog
	if err := c.do(ctx, http.MethodGet, "/api/cafe-logs/"+escape(id), nil, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) CreateCafeLog(ctx context.Context, req *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	var entry models.CafeLog
	if err := c.do(ctx, http.MethodPost, "/api/cafe-logs", nil, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateCafeLog(ctx context.Context, id string, req *models.CreateCafeLogRequest) (*models.CafeLog, error) {
	var entry models.CafeLog
	if err := c.do(ctx, http.MethodPut, "/api/cafe-logs/"+escape(id), nil, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteCafeLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cafe-logs/"+escape(id), nil, nil, nil)
}

// Aggregates

// Snapshot fetches every collection at once.
func (c *Client) Snapshot(ctx context.Context) (*journal.Snapshot, error) {
	var snap journal.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) Stats(ctx context.Context) (*journal.Stats, error) {
	var stats journal.Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Cost prices dose grams of a bean.
func (c *Client) Cost(ctx context.Context, beanID string, dose float64) (*journal.CostEstimate, error) {
	var estimate journal.CostEstimate
	opts := &costOptions{BeanID: beanID, Dose: dose}
	if err := c.do(ctx, http.MethodGet, "/api/cost", opts, nil, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (c *Client) Options(ctx context.Context) (*models.FormOptions, error) {
	var opts models.FormOptions
	if err := c.do(ctx, http.MethodGet, "/api/options", nil, nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Autofill asks the server to complete a bean draft. Nothing is stored.
func (c *Client) Autofill(ctx context.Context, draft *models.CreateBeanRequest) (*journal.AutofillResult, error) {
	var result journal.AutofillResult
	if err := c.do(ctx, http.MethodPost, "/api/autofill", nil, draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Suggest returns previously entered values of kind, one of suggestions.Kinds.
func (c *Client) Suggest(ctx context.Context, kind string, opts *SuggestOptions) ([]suggestions.Suggestion, error) {
	var results []suggestions.Suggestion
	err := c.do(ctx, http.MethodGet, "/api/suggestions/"+escape(kind), opts, nil, &results)
	return results, err
}
