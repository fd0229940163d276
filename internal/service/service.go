package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/logging"
)

// notFound turns a missing row into a user facing 404 and wraps anything else.
func notFound(err error, msg, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// publish is best effort: a broker outage never fails a committed write.
func publish(ctx context.Context, pub events.Publisher, topic, key, eventType string, data any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", eventType, "error", err)
	}
}
