// Package whatsapp wraps the WATI session message API.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"

	"github.com/google/uuid"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

type watiResponse struct {
	Result    bool   `json:"result"`
	MessageID string `json:"messageId"`
	Info      string `json:"info"`
}

// NewClient returns nil when the gateway is not configured. A nil
// client is safe to call; sends succeed with a locally generated
// message id so the rest of the pipeline behaves the same in
// development.
func NewClient(cfg config.WatiConfig, log *logger.Logger) *Client {
	if !cfg.IsWatiEnabled() {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetWatiBaseURL(), "/"),
		apiKey:  cfg.GetWatiAPIKey(),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// SendSessionMessage delivers a free-form message to an open WhatsApp
// session and returns the gateway's message id.
func (c *Client) SendSessionMessage(ctx context.Context, phoneNumber, message string) (string, error) {
	if c == nil {
		return localMessageID(), nil
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(phoneNumber), "+")

	endpoint := fmt.Sprintf("%s/api/v1/sendSessionMessage/%s?messageText=%s",
		c.baseURL, normalized, url.QueryEscape(message))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("wati request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("wati returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed watiResponse
	if err := json.Unmarshal(data, &parsed); err != nil || !parsed.Result {
		return "", fmt.Errorf("wati rejected message: %s", strings.TrimSpace(string(data)))
	}

	messageID := parsed.MessageID
	if messageID == "" {
		messageID = localMessageID()
	}

	c.log.Info("whatsapp sent via wati", "phone", normalized, "message_id", messageID)
	return messageID, nil
}

func localMessageID() string {
	return "local_" + uuid.NewString()
}
