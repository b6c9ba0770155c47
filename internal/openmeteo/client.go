package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

// UpstreamError carries a non-200 reply from an Open-Meteo service.
type UpstreamError struct {
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("weather service error: %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("weather service error: %d", e.StatusCode)
}

// Client fetches weather data from the Open-Meteo service family. One circuit
// breaker per endpoint; a single attempt per request, no retries.
type Client struct {
	httpClient *http.Client
	endpoints  map[intent.APIType]string
	breakers   map[intent.APIType]*gobreaker.CircuitBreaker
}

// NewClient creates a Client using the registered endpoints.
func NewClient(httpClient *http.Client) *Client {
	endpoints := make(map[intent.APIType]string, len(baseURLs))
	breakers := make(map[intent.APIType]*gobreaker.CircuitBreaker, len(baseURLs))
	for t, u := range baseURLs {
		endpoints[t] = u
		breakers[t] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openmeteo-" + string(t),
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
	}
	return &Client{
		httpClient: httpClient,
		endpoints:  endpoints,
		breakers:   breakers,
	}
}

// Fetch performs one GET against the endpoint for the given API type and
// decodes the JSON body. Non-200 responses surface as *UpstreamError with the
// upstream reason when it is parseable.
func (c *Client) Fetch(ctx context.Context, t intent.APIType, params Params) (map[string]any, error) {
	base, ok := c.endpoints[t]
	if !ok {
		return nil, fmt.Errorf("no endpoint registered for api type %q", t)
	}

	values := params.Values()
	values.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	result, err := c.breakers[t].Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &UpstreamError{
				StatusCode: resp.StatusCode,
				Reason:     decodeErrorReason(resp),
			}
		}

		var data map[string]any
		if decErr := json.NewDecoder(resp.Body).Decode(&data); decErr != nil {
			return nil, fmt.Errorf("decoding weather response: %w", decErr)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return data, nil
}

// decodeErrorReason extracts the "reason" or "error" field from an Open-Meteo
// error body, when present.
func decodeErrorReason(resp *http.Response) string {
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if reason, ok := body["reason"].(string); ok {
		return reason
	}
	if msg, ok := body["error"].(string); ok {
		return msg
	}
	return ""
}
