package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type EventPublisher interface {
	PublishMeetingEvent(ctx context.Context, event queue.MeetingEvent) error
}

// MeetingResolver expands stored references into display data.
type MeetingResolver interface {
	Resolve(ctx context.Context, meetings []entity.Meeting, directives ...Populate) ([]MeetingOutput, error)
}
