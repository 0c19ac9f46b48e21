package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type DeleteMeetingUseCase struct {
	Repo   entity.MeetingRepository
	Events EventPublisher
}

func NewDeleteMeetingUseCase(repo entity.MeetingRepository, events EventPublisher) *DeleteMeetingUseCase {
	return &DeleteMeetingUseCase{Repo: repo, Events: events}
}

// Execute soft-deletes one meeting. Deleting an already deleted meeting is
// reported as not found and leaves the record deleted.
func (uc *DeleteMeetingUseCase) Execute(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return notFound("meeting not found")
	}

	err := uc.Repo.SoftDelete(ctx, id)
	if errors.Is(err, entity.ErrMeetingNotFound) {
		return notFound("meeting not found")
	}
	if err != nil {
		return storageFailed("error deleting meeting", err)
	}

	publishDeleted(ctx, uc.Events, []string{id})
	return nil
}

type DeleteManyMeetingsUseCase struct {
	Repo   entity.MeetingRepository
	Events EventPublisher
}

func NewDeleteManyMeetingsUseCase(repo entity.MeetingRepository, events EventPublisher) *DeleteManyMeetingsUseCase {
	return &DeleteManyMeetingsUseCase{Repo: repo, Events: events}
}

// Execute soft-deletes every listed meeting. Unknown ids are skipped; the
// batch is not atomic across ids.
func (uc *DeleteManyMeetingsUseCase) Execute(ctx context.Context, input DeleteManyInput) (*DeleteManyOutput, error) {
	if fields := ValidateDeleteManyInput(input); len(fields) > 0 {
		return nil, validationFailed(fields)
	}

	changed, err := uc.Repo.SoftDeleteMany(ctx, trimIDs(input.IDs))
	if err != nil {
		return nil, storageFailed("error deleting meetings", err)
	}

	// Only ids that actually flipped to deleted are announced.
	if len(changed) > 0 {
		publishDeleted(ctx, uc.Events, changed)
	}

	return &DeleteManyOutput{
		Message: "Meetings marked as deleted",
		Updated: int64(len(changed)),
	}, nil
}

func publishDeleted(ctx context.Context, events EventPublisher, ids []string) {
	if events == nil {
		return
	}
	event := queue.MeetingEvent{
		EventID:    uuid.New().String(),
		Type:       queue.EventMeetingDeleted,
		MeetingIDs: ids,
		OccurredAt: time.Now().UTC(),
	}
	if err := events.PublishMeetingEvent(ctx, event); err != nil {
		log.Printf("meetings %v deleted but event was not published: %v", ids, err)
	}
}
