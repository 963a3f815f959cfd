// internal/dialer/dialer.go
package dialer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL         string
	Token       string
	PathwayID   string
	WebhookURL  string
	Voice       string
	MaxDuration int
	Timeout     time.Duration
}

// Client starts outbound calls through the dial provider. Callers treat it as
// fire-and-forget: a failed dial request never fails the surrounding
// operation.
type Client struct {
	baseURL     string
	token       string
	pathwayID   string
	webhookURL  string
	voice       string
	maxDuration int
	httpClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("dialer url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	voice := cfg.Voice
	if voice == "" {
		voice = "June"
	}

	maxDuration := cfg.MaxDuration
	if maxDuration <= 0 {
		maxDuration = 12
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       strings.TrimSpace(cfg.Token),
		pathwayID:   strings.TrimSpace(cfg.PathwayID),
		webhookURL:  strings.TrimSpace(cfg.WebhookURL),
		voice:       voice,
		maxDuration: maxDuration,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type startCallRequest struct {
	PhoneNumber     string            `json:"phone_number"`
	Voice           string            `json:"voice"`
	WaitForGreeting bool              `json:"wait_for_greeting"`
	Record          bool              `json:"record"`
	MaxDuration     int               `json:"max_duration"`
	PathwayID       string            `json:"pathway_id,omitempty"`
	Webhook         string            `json:"webhook,omitempty"`
	Metadata        map[string]int64  `json:"metadata"`
}

// StartCall asks the provider to dial the customer, carrying the inquiry id
// as correlation metadata so the provider's webhook can find its way back.
func (c *Client) StartCall(ctx context.Context, phoneNumber string, inquiryID int64) error {
	body, err := json.Marshal(startCallRequest{
		PhoneNumber: phoneNumber,
		Voice:       c.voice,
		Record:      true,
		MaxDuration: c.maxDuration,
		PathwayID:   c.pathwayID,
		Webhook:     c.webhookURL,
		Metadata:    map[string]int64{"inquiry_id": inquiryID},
	})
	if err != nil {
		return fmt.Errorf("failed to encode dial request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/calls", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dial request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dial request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("dial provider returned status %d", resp.StatusCode)
	}

	return nil
}
