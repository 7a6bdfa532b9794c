package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// WebhookChannel posts rendered messages to an external dispatch endpoint.
// Fire-and-forget from the core's perspective: the endpoint owns delivery.
type WebhookChannel struct {
	url    string
	client *http.Client
}

func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *WebhookChannel) Send(ctx context.Context, destination, body string) error {
	payload, err := json.Marshal(map[string]string{
		"to":   destination,
		"body": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dispatch endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// LogChannel is the development fallback when no webhook is configured.
type LogChannel struct {
	log logrus.FieldLogger
}

func NewLogChannel(log logrus.FieldLogger) *LogChannel {
	return &LogChannel{log: log}
}

func (c *LogChannel) Send(_ context.Context, destination, body string) error {
	c.log.WithField("to", destination).Info(body)
	return nil
}
