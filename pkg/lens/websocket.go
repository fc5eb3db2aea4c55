package lens

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	webSocketSubprotocol = "graphql-transport-ws"

	webSocketHandshakeTimeout  = 15 * time.Second
	webSocketInactivityTimeout = 30 * time.Second
)

const transactionStatusSubscription = `subscription TransactionStatus($txHash: TxHash!) {
  transactionStatus(txHash: $txHash) {
    __typename
    ... on FailedTransactionStatus { reason }
  }
}`

type webSocketMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c *Client) resolveWebSocketURL() (string, error) {
	if c.webSocketURL != "" {
		return c.webSocketURL, nil
	}

	parsed, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to derive websocket URL: %w", err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	default:
		return "", fmt.Errorf("cannot derive websocket URL from scheme %q", parsed.Scheme)
	}
	return parsed.String(), nil
}

// waitForTransactionWebSocket follows a transaction through a graphql-ws
// subscription. Errors other than a terminal transaction failure signal
// the caller to fall back to HTTP polling.
func (c *Client) waitForTransactionWebSocket(ctx context.Context, txHash string) error {
	hash := strings.TrimSpace(txHash)
	if hash == "" {
		return fmt.Errorf("transaction hash is required")
	}

	wsURL, err := c.resolveWebSocketURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		Subprotocols:     []string{webSocketSubprotocol},
		HandshakeTimeout: webSocketHandshakeTimeout,
	}
	header := http.Header{}
	if c.origin != "" {
		header.Set("Origin", c.origin)
	}
	if token := c.AccessToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	defer conn.Close()

	initPayload := map[string]any{}
	if token := c.AccessToken(); token != "" {
		initPayload["authorization"] = token
	}
	if err := writeWebSocketMessage(conn, webSocketMessage{Type: "connection_init"}, initPayload); err != nil {
		return err
	}

	if err := awaitConnectionAck(conn); err != nil {
		return err
	}

	subscribePayload := map[string]any{
		"query":     transactionStatusSubscription,
		"variables": map[string]any{"txHash": hash},
	}
	if err := writeWebSocketMessage(conn, webSocketMessage{ID: "1", Type: "subscribe"}, subscribePayload); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(webSocketInactivityTimeout)); err != nil {
			return err
		}

		var message webSocketMessage
		if err := conn.ReadJSON(&message); err != nil {
			return fmt.Errorf("websocket read failed: %w", err)
		}

		switch message.Type {
		case "ping":
			if err := conn.WriteJSON(webSocketMessage{Type: "pong"}); err != nil {
				return err
			}
		case "next":
			status, parseErr := parseSubscriptionStatus(message.Payload)
			if parseErr != nil {
				return parseErr
			}
			switch status.State {
			case StateFinished:
				_ = conn.WriteJSON(webSocketMessage{ID: "1", Type: "complete"})
				return nil
			case StateFailed:
				_ = conn.WriteJSON(webSocketMessage{ID: "1", Type: "complete"})
				return &transactionFailedError{TxHash: hash, Reason: status.Reason}
			}
		case "error":
			return fmt.Errorf("websocket subscription error: %s", strings.TrimSpace(string(message.Payload)))
		case "complete":
			return fmt.Errorf("subscription completed without a terminal status")
		}
	}
}

func writeWebSocketMessage(conn *websocket.Conn, message webSocketMessage, payload map[string]any) error {
	if len(payload) > 0 {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		message.Payload = encoded
	}
	return conn.WriteJSON(message)
}

func awaitConnectionAck(conn *websocket.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(webSocketHandshakeTimeout)); err != nil {
		return err
	}
	for {
		var message webSocketMessage
		if err := conn.ReadJSON(&message); err != nil {
			return fmt.Errorf("websocket handshake failed: %w", err)
		}
		switch message.Type {
		case "connection_ack":
			return nil
		case "ping":
			if err := conn.WriteJSON(webSocketMessage{Type: "pong"}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected message %q during websocket handshake", message.Type)
		}
	}
}

func parseSubscriptionStatus(payload json.RawMessage) (TransactionStatus, error) {
	var parsed struct {
		Data struct {
			TransactionStatus struct {
				Typename string `json:"__typename"`
				Reason   string `json:"reason"`
			} `json:"transactionStatus"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return TransactionStatus{}, fmt.Errorf("failed to decode subscription payload: %w", err)
	}
	return mapTransactionStatus(
		parsed.Data.TransactionStatus.Typename,
		parsed.Data.TransactionStatus.Reason,
	), nil
}
