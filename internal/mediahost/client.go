// Package mediahost talks to the media host's per-asset metadata endpoint.
// The host serves renditions of every uploaded binary and exposes the
// embedded technical metadata as a JSON document alongside each asset.
package mediahost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the host answers with a non-success status for
// an asset. Callers treat it as "this record cannot be enriched", not as a
// transport failure worth retrying.
var ErrNotFound = errors.New("media host: asset not found")

// Client fetches asset metadata over HTTPS. One Client is safe to reuse
// across sequential calls.
type Client struct {
	baseURL    string
	namespace  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a metadata client for one namespace. Both the base URL and the
// namespace are required; the enrichment commands check this before any
// record is touched.
func New(baseURL, namespace string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("media host base url required")
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return nil, errors.New("media host namespace required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		namespace:  namespace,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// assetDocument mirrors the host's metadata response. Only the embedded
// image_metadata map matters to enrichment; width/height ride along for the
// upload flow.
type assetDocument struct {
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	ImageMetadata map[string]any `json:"image_metadata"`
}

// ImageMetadata issues one GET for the asset's JSON document and returns the
// raw vendor metadata map. The map may be empty when the binary carried no
// EXIF block; that is not an error.
func (c *Client) ImageMetadata(ctx context.Context, assetID string) (map[string]any, error) {
	doc, err := c.fetch(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if doc.ImageMetadata == nil {
		return map[string]any{}, nil
	}
	return doc.ImageMetadata, nil
}

// Dimensions returns the pixel size recorded for an asset.
func (c *Client) Dimensions(ctx context.Context, assetID string) (width, height int, err error) {
	doc, err := c.fetch(ctx, assetID)
	if err != nil {
		return 0, 0, err
	}
	return doc.Width, doc.Height, nil
}

func (c *Client) fetch(ctx context.Context, assetID string) (*assetDocument, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, errors.New("asset id required")
	}
	endpoint := fmt.Sprintf("%s/%s/%s.json", c.baseURL, url.PathEscape(c.namespace), url.PathEscape(assetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w (status %d)", ErrNotFound, resp.StatusCode)
	}
	var doc assetDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode asset metadata: %w", err)
	}
	return &doc, nil
}
