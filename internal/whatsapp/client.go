package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

const (
	defaultGraphAPIBase = "https://graph.facebook.com"
	defaultHTTPTimeout  = 10 * time.Second

	messagingProduct = "whatsapp"
)

// Client issues authenticated Graph API calls for one business phone
// number. It performs exactly one network call per invocation; retry is
// the delivery policy's responsibility.
type Client struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

// ClientConfig carries the credentials and addressing for the Graph API.
type ClientConfig struct {
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
	BaseURL       string // override for tests
	HTTPClient    *http.Client
}

// NewClient creates a Graph API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("whatsapp: access token required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, errors.New("whatsapp: phone number id required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		version := cfg.APIVersion
		if version == "" {
			version = "v22.0"
		}
		base = defaultGraphAPIBase + "/" + version
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       base,
		httpClient:    httpClient,
	}, nil
}

// SendText sends a plain text message and returns the provider message id.
func (c *Client) SendText(ctx context.Context, recipient, text string) (string, error) {
	req := SendTextRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             TextPayload{PreviewURL: false, Body: text},
	}
	return c.post(ctx, req)
}

// SendTemplate sends a rendered template payload and returns the provider
// message id.
func (c *Client) SendTemplate(ctx context.Context, recipient string, payload TemplatePayload) (string, error) {
	req := SendTemplateRequest{
		MessagingProduct: messagingProduct,
		To:               recipient,
		Type:             "template",
		Template:         payload,
	}
	return c.post(ctx, req)
}

// MarkRead marks an inbound message as read so the sender sees the blue
// check marks.
func (c *Client) MarkRead(ctx context.Context, providerMessageID string) error {
	req := MarkReadRequest{
		MessagingProduct: messagingProduct,
		Status:           "read",
		MessageID:        providerMessageID,
	}
	_, err := c.post(ctx, req)
	return err
}

func (c *Client) post(ctx context.Context, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("whatsapp: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("whatsapp: request aborted: %w", messaging.ErrCancelled)
		}
		// Network-level failures are retryable.
		return "", fmt.Errorf("whatsapp: http error: %v: %w", err, messaging.ErrTransient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whatsapp: read response: %v: %w", err, messaging.ErrTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp.StatusCode, respBody)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return "", fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if len(sendResp.Messages) == 0 {
		return "", nil
	}
	return sendResp.Messages[0].ID, nil
}

// APIError is a non-2xx Graph API response. It unwraps to ErrTransient for
// 429 and 5xx statuses and ErrPermanent for every other 4xx, so the
// delivery policy can classify with errors.Is.
type APIError struct {
	StatusCode int
	Graph      *GraphError
}

func (e *APIError) Error() string {
	if e.Graph != nil && e.Graph.Message != "" {
		return fmt.Sprintf("whatsapp: API error %d: %s (status=%d, trace=%s)",
			e.Graph.Code, e.Graph.Message, e.StatusCode, e.Graph.FBTraceID)
	}
	return fmt.Sprintf("whatsapp: http status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return messaging.ErrTransient
	}
	return messaging.ErrPermanent
}

func decodeAPIError(status int, body []byte) error {
	var wrapper struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return &APIError{StatusCode: status}
	}
	return &APIError{StatusCode: status, Graph: wrapper.Error}
}
