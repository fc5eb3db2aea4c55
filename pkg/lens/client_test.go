package lens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openclaw/lenspost-go/pkg/shared"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Environment: shared.Environment{APIURL: serverURL},
		Origin:      "https://openclaw.local",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func graphQLServer(t *testing.T, handler func(query string, variables map[string]any) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			http.Error(w, "websocket not supported", http.StatusBadRequest)
			return
		}
		var request struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		body, status := handler(request.Query, request.Variables)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestNewClientRequiresAPIURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing API URL")
	}
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	_, err := NewClient(Config{Environment: shared.Environment{APIURL: "ftp://api.lens.xyz"}})
	if err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestNewClientRejectsBadConnectionMode(t *testing.T) {
	_, err := NewClient(Config{
		Environment:    shared.Environment{APIURL: "https://api.lens.xyz/graphql"},
		ConnectionMode: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("expected error for unsupported connection mode")
	}
}

func TestExecuteSendsSessionAndOrigin(t *testing.T) {
	var gotAuthorization, gotOrigin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		gotOrigin = r.Header.Get("Origin")
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	client.SetAccessToken("token-123")

	if err := client.execute(context.Background(), "noop", "query {}", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuthorization != "Bearer token-123" {
		t.Fatalf("unexpected authorization header: %q", gotAuthorization)
	}
	if gotOrigin != "https://openclaw.local" {
		t.Fatalf("unexpected origin header: %q", gotOrigin)
	}
}

func TestExecuteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.execute(context.Background(), "noop", "query {}", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", apiErr.Status)
	}
}

func TestExecuteGraphQLErrors(t *testing.T) {
	server := graphQLServer(t, func(query string, variables map[string]any) (string, int) {
		return `{"errors":[{"message":"not authenticated"}]}`, http.StatusOK
	})
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.execute(context.Background(), "noop", "query {}", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "not authenticated" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestExecuteParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.execute(context.Background(), "noop", "query {}", nil, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestSetAccessToken(t *testing.T) {
	client := testClient(t, "https://api.lens.xyz/graphql")
	client.SetAccessToken("  abc  ")
	if client.AccessToken() != "abc" {
		t.Fatalf("expected trimmed token, got %q", client.AccessToken())
	}
	client.SetAccessToken("")
	if client.AccessToken() != "" {
		t.Fatal("expected cleared token")
	}
}
