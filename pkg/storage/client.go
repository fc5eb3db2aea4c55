package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const (
	// DefaultBaseURL is the public Grove storage endpoint.
	DefaultBaseURL = "https://api.grove.storage"

	// URIScheme is the scheme of content URIs minted by the service.
	URIScheme = "lens://"
)

// Config configures a storage client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the storage service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// UploadResult describes one stored object.
type UploadResult struct {
	StorageKey string `json:"storage_key"`
	URI        string `json:"uri"`
	GatewayURL string `json:"gateway_url"`
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid storage base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid storage base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return nil, fmt.Errorf("invalid storage base URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadImmutable stores a JSON payload immutably, keyed by the chain id
// whose posts will reference it, and returns the minted content URI.
func (c *Client) UploadImmutable(
	ctx context.Context,
	chainID int64,
	payload any,
) (UploadResult, error) {
	if chainID <= 0 {
		return UploadResult{}, fmt.Errorf("chain ID must be positive")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	endpoint := c.baseURL + "/?chain_id=" + strconv.FormatInt(chainID, 10)
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return UploadResult{}, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return UploadResult{}, &Error{Message: "storage upload failed", Cause: err}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return UploadResult{}, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return UploadResult{}, &Error{
			Message:    "storage upload failed",
			Status:     response.StatusCode,
			StatusText: response.Status,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	result, err := parseUploadResponse(responseBody)
	if err != nil {
		return UploadResult{}, err
	}
	if strings.TrimSpace(result.URI) == "" {
		return UploadResult{}, fmt.Errorf("storage response did not include a content URI")
	}

	return result, nil
}

// Download resolves a content URI to its raw bytes. lens:// URIs are
// fetched through the configured endpoint; http(s) URIs are fetched
// directly. Brotli-encoded responses are decompressed.
func (c *Client) Download(ctx context.Context, contentURI string) ([]byte, error) {
	requestURL, err := c.resolveContentURL(contentURI)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept-Encoding", "br")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &Error{Message: "storage download failed", Cause: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &Error{
			Message:    "storage download failed",
			Status:     response.StatusCode,
			StatusText: response.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if strings.Contains(strings.ToLower(response.Header.Get("Content-Encoding")), "br") {
		decompressed, decompressErr := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if decompressErr == nil && len(decompressed) > 0 {
			return decompressed, nil
		}
	}

	return body, nil
}

func (c *Client) resolveContentURL(contentURI string) (string, error) {
	trimmed := strings.TrimSpace(contentURI)
	if trimmed == "" {
		return "", fmt.Errorf("content URI is required")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed, nil
	}
	if strings.HasPrefix(trimmed, URIScheme) {
		key := strings.TrimPrefix(trimmed, URIScheme)
		if strings.TrimSpace(key) == "" {
			return "", fmt.Errorf("content URI is missing a storage key")
		}
		return c.baseURL + "/" + url.PathEscape(key), nil
	}
	return "", fmt.Errorf("unsupported content URI %q", contentURI)
}

func parseUploadResponse(body []byte) (UploadResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return UploadResult{}, fmt.Errorf("storage response was empty")
	}

	if trimmed[0] == '[' {
		var results []UploadResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return UploadResult{}, fmt.Errorf("failed to decode storage response: %w", err)
		}
		if len(results) == 0 {
			return UploadResult{}, fmt.Errorf("storage response was empty")
		}
		return results[0], nil
	}

	var result UploadResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return UploadResult{}, fmt.Errorf("failed to decode storage response: %w", err)
	}
	return result, nil
}
