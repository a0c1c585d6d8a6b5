package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Email is one outgoing message. An empty From uses the sender's default.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) error
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

func NewResendClient(cfg config.EmailConfig) *ResendClient {
	return &ResendClient{
		apiKey:     cfg.ResendAPIKey,
		from:       cfg.FromEmail,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SendEmail sends an email using the Resend API
func (c *ResendClient) SendEmail(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	from := email.From
	if from == "" {
		from = c.from
	}

	payload := ResendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		ReplyTo: email.ReplyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
