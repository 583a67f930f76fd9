// internal/infra/mail/graph_client.go
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	domainmail "qr_order_system/internal/domain/mail"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	graphScope          = "https://graph.microsoft.com/.default"

	// Graph error bodies can be large; keep only the head for logs.
	maxErrorBodyBytes = 2048
)

// GraphClient delivers digest emails through the Microsoft Graph sendMail
// endpoint. Token exchange uses the OAuth2 client-credentials grant; the
// oauth2 transport caches the access token and refreshes it on expiry, so
// the client is created once per process and reused across runs.
type GraphClient struct {
	httpClient *http.Client
	sender     string
	baseURL    string
}

func NewGraphClient(tenantID, clientID, clientSecret, sender string) *GraphClient {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", url.PathEscape(tenantID)),
		Scopes:       []string{graphScope},
	}
	return &GraphClient{
		httpClient: cfg.Client(context.Background()),
		sender:     sender,
		baseURL:    defaultGraphBaseURL,
	}
}

type graphRecipient struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
}

type graphSendMailRequest struct {
	Message struct {
		Subject string `json:"subject"`
		Body    struct {
			ContentType string `json:"contentType"`
			Content     string `json:"content"`
		} `json:"body"`
		ToRecipients []graphRecipient `json:"toRecipients"`
	} `json:"message"`
}

// SendDigest posts the digest to Graph. Anything but a 2xx is reported as a
// DeliveryError; 429 and 5xx are flagged retryable, though the runner treats
// every failure the same within a run.
func (c *GraphClient) SendDigest(ctx context.Context, toAddress, subject, bodyHTML string) error {
	var payload graphSendMailRequest
	payload.Message.Subject = subject
	payload.Message.Body.ContentType = "HTML"
	payload.Message.Body.Content = bodyHTML
	var recipient graphRecipient
	recipient.EmailAddress.Address = toAddress
	payload.Message.ToRecipients = []graphRecipient{recipient}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode sendMail payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/sendMail", c.baseURL, url.PathEscape(c.sender))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sendMail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainmail.DeliveryError{Retryable: true, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &domainmail.DeliveryError{
		StatusCode: resp.StatusCode,
		Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		Detail:     string(detail),
	}
}
