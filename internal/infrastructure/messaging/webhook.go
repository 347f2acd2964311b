package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// WebhookNotifier posts user notifications as JSON to a URL. It satisfies
// events.Notifier. Failed deliveries are retried and, once retries are
// exhausted, appended to the dead letter store when one is set.
type WebhookNotifier struct {
	url        string
	client     *http.Client
	retry      retry.Config
	deadLetter *DeadLetterStore
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithWebhookRetry sets the delivery attempts and the first backoff delay.
func WithWebhookRetry(attempts int, delay time.Duration) WebhookOption {
	return func(n *WebhookNotifier) {
		n.retry.MaxAttempts = attempts
		n.retry.InitialDelay = delay
	}
}

// WithDeadLetter records undeliverable notifications in store.
func WithDeadLetter(store *DeadLetterStore) WebhookOption {
	return func(n *WebhookNotifier) { n.deadLetter = store }
}

func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	n := &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		retry: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  time.Second,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *WebhookNotifier) Notify(ctx context.Context, title, message string) error {
	payload := map[string]any{
		"title":     title,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	retryer := retry.New[struct{}](n.retry)
	_, err = retryer.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.send(ctx, body)
	})
	if err != nil && n.deadLetter != nil {
		dl := DeadLetter{
			Timestamp: time.Now().UTC(),
			URL:       n.url,
			Title:     title,
			Payload:   string(body),
			Error:     err.Error(),
			Attempts:  n.retry.MaxAttempts,
		}
		if dlErr := n.deadLetter.Append(dl); dlErr != nil {
			return fmt.Errorf("%w (dead letter: %v)", err, dlErr)
		}
	}
	return err
}

func (n *WebhookNotifier) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Nihulit-Notifier/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
