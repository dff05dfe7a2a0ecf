package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koscakluka/realtime-core/core/events"
)

func TestConnectOptions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	options := defaultConnectOptions()
	for _, opt := range []ConnectOption{
		WithURL("wss://example.test/realtime"),
		WithModel("test-model"),
		WithAPIKey("explicit-key"),
		WithDialHeader("X-Custom", "value"),
	} {
		opt(&options)
	}

	if options.url != "wss://example.test/realtime" {
		t.Errorf("expected url override, got %q", options.url)
	}
	if options.model != "test-model" {
		t.Errorf("expected model override, got %q", options.model)
	}
	if options.apiKey != "explicit-key" {
		t.Errorf("expected explicit key to win over env, got %q", options.apiKey)
	}
	if got := options.header.Get("X-Custom"); got != "value" {
		t.Errorf("expected custom dial header, got %q", got)
	}
}

func TestConnectOptionsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	options := defaultConnectOptions()
	if options.apiKey != "env-key" {
		t.Errorf("expected key from environment, got %q", options.apiKey)
	}
}

func TestSendOnClosedConn(t *testing.T) {
	conn := New()
	if conn.IsConnected() {
		t.Fatal("expected fresh conn to be disconnected")
	}
	if err := conn.Send(context.Background(), &events.ResponseCreate{}); err == nil {
		t.Fatal("expected send on disconnected conn to fail")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("expected close on disconnected conn to be a no-op, got %v", err)
	}
}

func TestMintClientSecret(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		_ = json.NewEncoder(w).Encode(map[string]any{
			"client_secret": map[string]any{
				"value":      "ek_test",
				"expires_at": 1735689600,
			},
		})
	}))
	defer server.Close()

	secret, err := MintClientSecret(context.Background(),
		WithSessionsURL(server.URL),
		WithAPIKey("sk-test"),
		WithModel("test-model"),
	)
	if err != nil {
		t.Fatalf("expected mint to succeed, got %v", err)
	}
	if secret.Value != "ek_test" {
		t.Errorf("expected secret value ek_test, got %q", secret.Value)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Errorf("expected model in request body, got %q", gotModel)
	}
}

func TestMintClientSecretErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	if _, err := MintClientSecret(context.Background(),
		WithSessionsURL(server.URL), WithAPIKey("sk-bad")); err == nil {
		t.Fatal("expected non-200 response to fail")
	}

	if _, err := MintClientSecret(context.Background(),
		WithSessionsURL(server.URL), WithAPIKey("")); err == nil {
		t.Fatal("expected missing api key to fail")
	}
}
