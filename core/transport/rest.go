package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var restClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// ClientSecret is an ephemeral credential minted for browser or device
// peers that must not hold the long-lived API key.
type ClientSecret struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// MintClientSecret creates a short-lived session over REST and returns
// its client secret. It accepts the same options as [Conn.Connect].
func MintClientSecret(ctx context.Context, opts ...ConnectOption) (*ClientSecret, error) {
	options := defaultConnectOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.apiKey == "" {
		return nil, fmt.Errorf("api key not found, set %s or pass WithAPIKey", apiKeyEnv)
	}

	body, err := json.Marshal(struct {
		Model string `json:"model"`
	}{Model: options.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, options.sessionsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+options.apiKey)
	req.Header.Set("OpenAI-Beta", "realtime=v1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := restClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to mint client secret: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("sessions endpoint returned %s: %s", resp.Status, payload)
	}

	var session struct {
		ClientSecret ClientSecret `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.ClientSecret.Value == "" {
		return nil, fmt.Errorf("sessions endpoint returned no client secret")
	}
	return &session.ClientSecret, nil
}
