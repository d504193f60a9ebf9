// Package push talks to the push delivery gateway: it exchanges the service
// account key for a short-lived access token and delivers one message per
// device token.
package push

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

	"github.com/zhaxal/ringi-task/config"
)

// Client is the HTTP client for the delivery gateway
type Client struct {
	httpClient *http.Client
	cfg        config.PushConfig
}

// NewClient creates a push gateway client
func NewClient(cfg config.PushConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
	}
}

// Notification is the user-visible payload of a push message
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken exchanges the service account key for a bearer token and
// reports how long the token stays valid
func (c *Client) AccessToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", c.cfg.ServiceAccountKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, body)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", 0, fmt.Errorf("token exchange returned empty access token")
	}

	return token.AccessToken, time.Duration(token.ExpiresIn) * time.Second, nil
}

// Send delivers one message to one device token
func (c *Client) Send(ctx context.Context, accessToken, deviceToken string, notif Notification) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"token":        deviceToken,
			"notification": notif,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("delivery returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
