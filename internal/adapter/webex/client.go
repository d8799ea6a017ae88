package webex

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

	"helpdesk-webhooks/config"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/observer"
	"helpdesk-webhooks/pkg/logger"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody caps how much of a failed response is read for the error message.
const maxErrorBody = 4 << 10

// Client implements ports.WebexClient against the Webex REST API.
type Client struct {
	baseURL  string
	botToken string
	http     HTTPClient
	log      zerolog.Logger
}

// NewClient builds a client from config. A nil httpClient gets a default
// client using cfg.Timeout.
func NewClient(cfg config.WebexConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		botToken: cfg.AccessToken,
		http:     httpClient,
		log:      logger.Component(log, "webex_client"),
	}
}

// GetPerson fetches GET /v1/people/{personId} with the bot token.
func (c *Client) GetPerson(ctx context.Context, personID string) (*ports.Person, error) {
	var person ports.Person
	endpoint := c.baseURL + "/v1/people/" + url.PathEscape(personID)
	if err := c.do(ctx, "get_person", http.MethodGet, endpoint, c.botToken, nil, &person); err != nil {
		return nil, fmt.Errorf("get person %s: %w", personID, err)
	}
	return &person, nil
}

// CreateWebhook registers a webhook at the platform using the owner's token.
func (c *Client) CreateWebhook(ctx context.Context, accessToken string, req ports.CreateRemoteWebhook) (*ports.RemoteWebhook, error) {
	var created ports.RemoteWebhook
	if err := c.do(ctx, "create_webhook", http.MethodPost, c.baseURL+"/v1/webhooks", accessToken, req, &created); err != nil {
		return nil, fmt.Errorf("create webhook: %w", err)
	}
	return &created, nil
}

// DeleteWebhook removes a webhook at the platform. A 404 surfaces as a
// *ports.WebexAPIError with NotFound() true.
func (c *Client) DeleteWebhook(ctx context.Context, accessToken string, webhookID string) error {
	endpoint := c.baseURL + "/v1/webhooks/" + url.PathEscape(webhookID)
	if err := c.do(ctx, "delete_webhook", http.MethodDelete, endpoint, accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete webhook %s: %w", webhookID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, method, endpoint, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observer.IncWebexRequest(operation, 0)
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	observer.IncWebexRequest(operation, resp.StatusCode)

	c.log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("webex api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type apiErrorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Description string `json:"description"`
	} `json:"errors"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &ports.WebexAPIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body apiErrorBody
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" && len(body.Errors) > 0 {
			apiErr.Message = body.Errors[0].Description
		}
	}
	return apiErr
}
