package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/normalize"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	telegramTimeout = 10 * time.Second

	// maxJobsPerMessage caps how many matches are spelled out; the rest
	// are summarized in a trailing line.
	maxJobsPerMessage = 5
)

// Telegram delivers alerts as Telegram bot messages.
type Telegram struct {
	// APIBase is the Bot API root; overridable in tests.
	APIBase string
	token   string
	client  *http.Client
}

// NewTelegram constructs a notifier for the given bot token.
func NewTelegram(token string) *Telegram {
	return &Telegram{
		APIBase: telegramAPIBase,
		token:   token,
		client:  &http.Client{Timeout: telegramTimeout},
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Notify sends one message listing the matched jobs.
func (t *Telegram) Notify(ctx context.Context, chatID string, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  FormatAlert(jobs),
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.APIBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FormatAlert renders the alert message body.
func FormatAlert(jobs []model.Job) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d new job(s) matching your alert!\n\n", len(jobs))

	shown := jobs
	if len(shown) > maxJobsPerMessage {
		shown = shown[:maxJobsPerMessage]
	}
	for _, job := range shown {
		title := normalize.Truncate(job.Title, 100)
		fmt.Fprintf(&b, "%s\n%s | %s\n%s\n\n", title, job.Company, job.Location, job.URL)
	}

	if rest := len(jobs) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "...and %d more.", rest)
	}
	return b.String()
}
