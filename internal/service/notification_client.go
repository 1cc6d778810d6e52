package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	PathVerificationCode  = "/api/notification/verification-code"
	PathPasswordResetLink = "/api/notification/password-reset-link"
	PathWelcomeMessage    = "/api/notification/welcome-message"
)

type VerificationCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type PasswordResetLinkPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type WelcomeMessagePayload struct {
	Email string `json:"email"`
}

// NotificationClient posts dispatch requests to the notification service.
type NotificationClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var defaultNotificationHTTPClient = &http.Client{Timeout: 10 * time.Second}

func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: defaultNotificationHTTPClient,
	}
}

func (c *NotificationClient) SendVerificationCode(ctx context.Context, email string, code string) error {
	return c.post(ctx, PathVerificationCode, VerificationCodePayload{Email: email, Code: code})
}

func (c *NotificationClient) SendPasswordResetLink(ctx context.Context, email string, token string) error {
	return c.post(ctx, PathPasswordResetLink, PasswordResetLinkPayload{Email: email, Token: token})
}

func (c *NotificationClient) SendWelcomeMessage(ctx context.Context, email string) error {
	return c.post(ctx, PathWelcomeMessage, WelcomeMessagePayload{Email: email})
}

func (c *NotificationClient) post(ctx context.Context, path string, payload any) error {
	client := c.HTTPClient
	if client == nil {
		client = defaultNotificationHTTPClient
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("notification %s failed with status %d", path, response.StatusCode)
	}
	return nil
}

var _ NotificationSender = (*NotificationClient)(nil)
