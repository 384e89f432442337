package notify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Channel delivers a rendered message to one destination.
type Channel interface {
	Send(ctx context.Context, to, content string) error
}

// SMSChannel posts messages to a Twilio-compatible REST gateway.
type SMSChannel struct {
	url        string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// SMSOption configures the SMS channel.
type SMSOption func(*SMSChannel)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) SMSOption {
	return func(ch *SMSChannel) {
		if client != nil {
			ch.client = client
		}
	}
}

// NewSMSChannel constructs an SMS gateway channel.
func NewSMSChannel(gatewayURL, accountSID, authToken, from string, opts ...SMSOption) (*SMSChannel, error) {
	if gatewayURL == "" {
		return nil, errors.New("sms channel: empty gateway url")
	}
	if from == "" {
		return nil, errors.New("sms channel: empty from number")
	}
	channel := &SMSChannel{
		url:        gatewayURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(channel)
	}
	return channel, nil
}

// Send posts one message using a form-encoded Twilio-style payload.
func (c *SMSChannel) Send(ctx context.Context, to, content string) error {
	if c == nil || c.url == "" {
		return errors.New("sms channel: not configured")
	}
	if to == "" {
		return errors.New("sms channel: empty destination")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", content)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.accountSID != "" {
		req.SetBasicAuth(c.accountSID, c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("sms channel: gateway status " + resp.Status)
	}
	return nil
}
