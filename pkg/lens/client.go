package lens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openclaw/lenspost-go/pkg/shared"
)

const DefaultUserAgent = "@openclaw/lenspost-go"

// ConnectionMode selects how the client follows transaction status.
type ConnectionMode string

const (
	ConnectionModeHTTP      ConnectionMode = "http"
	ConnectionModeWebSocket ConnectionMode = "websocket"
	ConnectionModeAuto      ConnectionMode = "auto"
)

// Config configures a protocol client.
type Config struct {
	Environment    shared.Environment
	Origin         string
	HTTPClient     *http.Client
	ConnectionMode ConnectionMode
	WebSocketURL   string
	Logger         *zerolog.Logger
}

// Client talks to the Lens API for one environment.
type Client struct {
	endpoint       string
	origin         string
	httpClient     *http.Client
	connectionMode ConnectionMode
	webSocketURL   string
	logger         zerolog.Logger

	mutex       sync.RWMutex
	accessToken string
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	endpoint := strings.TrimSpace(config.Environment.APIURL)
	if endpoint == "" {
		return nil, fmt.Errorf("environment API URL is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL: scheme must be http or https")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	connectionMode := config.ConnectionMode
	if connectionMode == "" {
		connectionMode = ConnectionModeHTTP
	}
	if connectionMode != ConnectionModeHTTP &&
		connectionMode != ConnectionModeWebSocket &&
		connectionMode != ConnectionModeAuto {
		return nil, fmt.Errorf("connection mode must be http, websocket, or auto")
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		endpoint:       endpoint,
		origin:         strings.TrimSpace(config.Origin),
		httpClient:     httpClient,
		connectionMode: connectionMode,
		webSocketURL:   strings.TrimSpace(config.WebSocketURL),
		logger:         logger,
	}, nil
}

// Endpoint returns the GraphQL endpoint the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetAccessToken installs the session token used for authenticated
// operations. An empty value clears the session.
func (c *Client) SetAccessToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.accessToken = strings.TrimSpace(token)
}

// AccessToken returns the current session token, if any.
func (c *Client) AccessToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.accessToken
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) execute(
	ctx context.Context,
	operation string,
	query string,
	variables map[string]any,
	target any,
) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", DefaultUserAgent)
	if c.origin != "" {
		request.Header.Set("Origin", c.origin)
	}
	if token := c.AccessToken(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("operation", operation).Msg("lens API request")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return &APIError{Operation: operation, Message: err.Error()}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &APIError{
			Operation:  operation,
			Message:    "request failed",
			Status:     response.StatusCode,
			StatusText: response.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &ParseError{
			Operation: operation,
			Message:   "failed to decode response",
			Body:      strings.TrimSpace(string(body)),
			Cause:     err,
		}
	}
	if len(envelope.Errors) > 0 {
		return &APIError{
			Operation: operation,
			Message:   joinGraphQLErrors(envelope.Errors),
			Body:      strings.TrimSpace(string(body)),
		}
	}
	if target == nil {
		return nil
	}
	if len(envelope.Data) == 0 {
		return &ParseError{
			Operation: operation,
			Message:   "response did not include data",
			Body:      strings.TrimSpace(string(body)),
		}
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return &ParseError{
			Operation: operation,
			Message:   "failed to decode response data",
			Body:      strings.TrimSpace(string(body)),
			Cause:     err,
		}
	}
	return nil
}

func (c *Client) delay(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
