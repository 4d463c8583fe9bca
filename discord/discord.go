// Package discord posts catalog-change notifications to a webhook. Sends are
// fire-and-forget from the caller's point of view: failures are logged by the
// caller and never block or fail the triggering mutation.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

type Webhook struct {
	webhookURL string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
}

// New builds a notifier. An empty webhook URL disables sending; every Send
// becomes a no-op so callers need no configuration checks.
func New(webhookURL, baseURL string) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		// Discord allows bursts but sustained sends get 429s; pace them.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// sendWebhook posts one payload, honoring 429 Retry-After.
func (d *Webhook) sendWebhook(ctx context.Context, payload map[string]any) error {
	if d.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			resp.Body.Close()
			return nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Second
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
			resp.Body.Close()
			select {
			case <-time.After(retryAfter):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		text, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return fmt.Errorf("discord webhook failed with status %d: %s", resp.StatusCode, text)
	}
}

func embedField(name, value string, inline bool) map[string]any {
	return map[string]any{
		"name":   name,
		"value":  value,
		"inline": inline,
	}
}
