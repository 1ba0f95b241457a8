package events

import (
	"context"

	"go.uber.org/zap"
)

// AuditHandler writes every consumed event to the audit log.
func AuditHandler(log *zap.Logger) Handler {
	return func(_ context.Context, event Event) error {
		log.Info("domain event",
			zap.String("type", event.Type),
			zap.Time("timestamp", event.Timestamp),
			zap.Any("data", event.Data),
		)
		return nil
	}
}
