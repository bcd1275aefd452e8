// Package sanity reads content from a Sanity-compatible hosted query API.
package sanity

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

	"github.com/madrasahweb/site/internal/platform/timeouts"
	"github.com/madrasahweb/site/internal/services/web/content"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Query API errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrTokenRequired        = errors.New("draft reads require an API token")
)

const (
	// DefaultAPIVersion is the dated API version used when none is set.
	DefaultAPIVersion = "2024-01-01"
	maxResponseBytes  = 10 * 1024 * 1024
)

// Config configures a Client.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	// UseCDN routes published reads through the cached API edge.
	UseCDN  bool
	Timeout time.Duration
	// APIHost overrides the derived host, for example in tests.
	APIHost string
	// CDNHost overrides the derived CDN host.
	CDNHost    string
	HTTPClient *http.Client
}

// Client executes content queries against the hosted API.
type Client struct {
	httpClient *http.Client
	apiHost    string
	cdnHost    string
	dataset    string
	apiVersion string
	token      string
	useCDN     bool
}

var _ content.Source = (*Client)(nil)

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	apiHost := strings.TrimRight(strings.TrimSpace(cfg.APIHost), "/")
	cdnHost := strings.TrimRight(strings.TrimSpace(cfg.CDNHost), "/")
	if apiHost == "" {
		if projectID == "" {
			return nil, errors.New("project id is required")
		}
		apiHost = "https://" + projectID + ".api.sanity.io"
	}
	if cdnHost == "" {
		if projectID != "" {
			cdnHost = "https://" + projectID + ".apicdn.sanity.io"
		} else {
			cdnHost = apiHost
		}
	}
	dataset := strings.TrimSpace(cfg.Dataset)
	if dataset == "" {
		return nil, errors.New("dataset is required")
	}
	apiVersion := strings.TrimPrefix(strings.TrimSpace(cfg.APIVersion), "v")
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.CMSRequest
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		httpClient: httpClient,
		apiHost:    apiHost,
		cdnHost:    cdnHost,
		dataset:    dataset,
		apiVersion: apiVersion,
		token:      strings.TrimSpace(cfg.Token),
		useCDN:     cfg.UseCDN,
	}, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error,omitempty"`
}

// Fetch renders q as GROQ and returns the raw result.
func (c *Client) Fetch(ctx context.Context, q content.Query, perspective content.Perspective) (json.RawMessage, error) {
	rendered, err := Render(q)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}
	if perspective == content.PerspectivePreviewDrafts && c.token == "" {
		return nil, ErrTokenRequired
	}
	endpoint, err := c.endpoint(rendered, perspective)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Type, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var decoded queryResponse
	decodeErr := json.Unmarshal(body, &decoded)
	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(body))
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Description != "" {
			detail = decoded.Error.Description
		}
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parse response: %w", decodeErr)
	}
	if len(decoded.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return decoded.Result, nil
}

func (c *Client) endpoint(rendered Rendered, perspective content.Perspective) (string, error) {
	host := c.apiHost
	if c.useCDN && perspective != content.PerspectivePreviewDrafts {
		host = c.cdnHost
	}
	base, err := url.Parse(host + "/v" + c.apiVersion + "/data/query/" + url.PathEscape(c.dataset))
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	values := url.Values{}
	values.Set("query", rendered.Query)
	for name, value := range rendered.Params {
		values.Set("$"+name, value)
	}
	if perspective == "" {
		perspective = content.PerspectivePublished
	}
	values.Set("perspective", string(perspective))
	base.RawQuery = values.Encode()
	return base.String(), nil
}
