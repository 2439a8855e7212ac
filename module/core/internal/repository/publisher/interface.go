package publisher

import (
	"context"

	"github.com/nandanugg/walkarea/module/core/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.WalkAlert) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event *domain.SessionEvent) error
}
