package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailClient posts transactional emails to the platform's mail service.
// Delivery is the mail service's responsibility; callers treat a send as
// fire-and-forget.
type MailClient struct {
	baseURL     string
	internalKey string
	httpClient  *http.Client
}

// NewMailClient creates a new mail service client
func NewMailClient(baseURL, internalKey string) *MailClient {
	return &MailClient{
		baseURL:     baseURL,
		internalKey: internalKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EmailButton is an optional call-to-action rendered below the body.
type EmailButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SendEmailRequest is the mail service payload
type SendEmailRequest struct {
	To      string       `json:"to"`
	Subject string       `json:"subject"`
	HTML    string       `json:"html"`
	Button  *EmailButton `json:"button,omitempty"`
}

// Send posts an email to the mail service
func (c *MailClient) Send(ctx context.Context, req *SendEmailRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/internal/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Internal-Secret", c.internalKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail-service returned status %d", resp.StatusCode)
	}

	return nil
}

// SendPanelCredentials emails a user their freshly created panel account.
func (c *MailClient) SendPanelCredentials(ctx context.Context, to, panelURL, email, password string) error {
	html := fmt.Sprintf(
		"<p>Your control panel account has been created.</p>"+
			"<p>Panel: %s<br>Email: %s<br>Password: %s</p>"+
			"<p>You can change the password after your first login.</p>",
		panelURL, email, password,
	)

	return c.Send(ctx, &SendEmailRequest{
		To:      to,
		Subject: "Your control panel account",
		HTML:    html,
		Button:  &EmailButton{Label: "Open control panel", URL: panelURL},
	})
}
