// Package notify delivers check-in confirmations to an external webhook.
// Delivery is best effort: failures are logged and dropped so a slow or
// absent notification endpoint can never stall the terminal.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmoura/eventgate/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

type payload struct {
	Email string `json:"email"`
	Event string `json:"event"`
}

// Notifier posts confirmation messages to a webhook URL.
type Notifier struct {
	url    string
	client *http.Client
	log    logging.Logger
}

func New(url string, log logging.Logger) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		log:    log,
	}
}

// CheckinConfirmed sends the confirmation, retrying transient failures with
// exponential backoff. Errors are logged, never returned.
func (n *Notifier) CheckinConfirmed(ctx context.Context, email, eventName string) {
	body, err := json.Marshal(payload{Email: email, Event: eventName})
	if err != nil {
		n.log.Error(ctx, "notify: marshal failed", "error", err)
		return
	}

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(initialBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(n.post(ctx, body))
	})
	if err != nil {
		n.log.Warn(ctx, "notify: confirmation dropped", "email", email, "error", err)
		return
	}

	n.log.Debug(ctx, "notify: confirmation delivered", "email", email, "event", eventName)
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
