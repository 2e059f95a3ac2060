// Package notify delivers matched jobs to subscribers.
package notify

import (
	"context"

	"jobhunt/aggregator-service/internal/model"
)

// Notifier delivers one batch of matched jobs to one subscriber. A failed
// delivery is terminal for that call; callers log and move on, they do not
// retry.
type Notifier interface {
	Notify(ctx context.Context, chatID string, jobs []model.Job) error
}

// Noop discards every notification. Used in scrape-only mode when no bot
// token is configured.
type Noop struct{}

func (Noop) Notify(ctx context.Context, chatID string, jobs []model.Job) error {
	return nil
}
