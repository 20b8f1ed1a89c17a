// Package mailer sends transactional email through a Brevo-compatible
// SMTP API (POST /v3/smtp/email with an api-key header).
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shop-service/internal/models"
)

type Client struct {
	httpClient  *http.Client
	apiURL      string
	apiKey      string
	senderEmail string
	senderName  string
}

// NewClient creates a mailer client for the given API endpoint and key.
func NewClient(apiURL, apiKey, senderEmail, senderName string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		apiURL:      apiURL,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Sender      address   `json:"sender"`
	To          []address `json:"to"`
	Subject     string    `json:"subject"`
	TextContent string    `json:"textContent"`
	HTMLContent string    `json:"htmlContent"`
}

// SendStatusEmail notifies an order's client of a status change.
func (c *Client) SendStatusEmail(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	payload := sendRequest{
		Sender:      address{Email: c.senderEmail, Name: c.senderName},
		To:          []address{{Email: event.ClientEmail}},
		Subject:     fmt.Sprintf("Order Status Update - Your Order is Now %s!", event.NewStatus),
		TextContent: textBody(event),
		HTMLContent: htmlBody(event),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}

func textBody(event *models.OrderStatusChangedEvent) string {
	return fmt.Sprintf(`Dear %s,

We are writing to let you know that the status of your order has been updated.

Order ID: %s
Previous Status: %s
New Status: %s

Thank you for shopping with us! You can track your order or contact us if you have any questions.

Best regards`, event.ClientName, event.OrderID, event.OldStatus, event.NewStatus)
}

func htmlBody(event *models.OrderStatusChangedEvent) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2 style="color: #333;">Order Status Update</h2>
  <p>Dear <strong>%s</strong>,</p>
  <p>We are writing to let you know that the status of your order has been updated.</p>
  <p>
    <strong>Order ID:</strong> %s<br>
    <strong>Previous Status:</strong> %s<br>
    <strong>New Status:</strong> %s
  </p>
  <p>Thank you for shopping with us! You can track your order or contact us if you have any questions.</p>
  <p style="color: #555;">Best regards</p>
</div>`, event.ClientName, event.OrderID, event.OldStatus, event.NewStatus)
}
