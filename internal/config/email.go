package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

type ResendConfig struct {
	APIKey string
	APIURL string
	From   string
}

// NewResendConfig reads the mailer settings. An empty API key disables
// outbound mail rather than failing startup, since mail is optional.
func NewResendConfig(logger *zap.Logger) *ResendConfig {
	apiKey := os.Getenv("RESEND_API_KEY")
	apiURL := os.Getenv("RESEND_API_URL")
	if apiURL == "" {
		apiURL = "https://api.resend.com/emails"
	}
	fromEmail := os.Getenv("FROM_EMAIL")
	if apiKey == "" {
		logger.Info("RESEND_API_KEY not set, outbound email disabled")
	}
	return &ResendConfig{APIKey: apiKey, APIURL: apiURL, From: fromEmail}
}

type EmailService struct {
	config *ResendConfig
	client *http.Client
	logger *zap.Logger
}

func NewEmailService(config *ResendConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (s *EmailService) Enabled() bool {
	return s.config.APIKey != ""
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if !s.Enabled() {
		return nil
	}

	payload, err := json.Marshal(emailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.config.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}
	return nil
}
