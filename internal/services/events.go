package services

import (
	"context"
	"log/slog"
)

// Activity events published to the message broker.
const (
	EventUserRegistered  = "user.registered"
	EventCourseCompleted = "course.completed"
)

// EventPublisher delivers activity events. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// publish sends an event if a publisher is configured. Failures are logged only.
func publish(ctx context.Context, logger *slog.Logger, pub EventPublisher, event string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event, payload); err != nil {
		logger.WarnContext(ctx, "failed to publish event", slog.String("event", event), slog.Any("error", err))
	}
}
