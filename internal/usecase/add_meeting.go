package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type AddMeetingUseCase struct {
	Repo   entity.MeetingRepository
	Events EventPublisher
}

func NewAddMeetingUseCase(repo entity.MeetingRepository, events EventPublisher) *AddMeetingUseCase {
	return &AddMeetingUseCase{
		Repo:   repo,
		Events: events,
	}
}

// Execute stores a new meeting created by creatorID. Nothing is written when
// validation fails.
func (uc *AddMeetingUseCase) Execute(ctx context.Context, input AddMeetingInput, creatorID string) (*MeetingOutput, error) {
	if fields := ValidateAddMeetingInput(input, creatorID); len(fields) > 0 {
		return nil, validationFailed(fields)
	}

	dateTime, _ := ParseDateTime(input.DateTime)

	meeting, err := entity.NewMeeting(
		input.Agenda,
		dateTime,
		input.Location,
		input.Notes,
		entity.Related(input.Related),
		trimIDs(input.Attendees),
		trimIDs(input.AttendeesLead),
		creatorID,
	)
	if err != nil {
		return nil, validationFailed([]ValidationError{{"meeting", err.Error()}})
	}

	if err := uc.Repo.Create(ctx, meeting); err != nil {
		return nil, storageFailed("adding meeting failed", err)
	}

	uc.publish(ctx, queue.MeetingEvent{
		EventID:    uuid.New().String(),
		Type:       queue.EventMeetingCreated,
		MeetingIDs: []string{meeting.ID},
		Agenda:     meeting.Agenda,
		DateTime:   meeting.DateTime,
		Location:   meeting.Location,
		CreateBy:   meeting.CreateBy,
		OccurredAt: time.Now().UTC(),
	})

	out := newMeetingOutput(*meeting)
	return &out, nil
}

func (uc *AddMeetingUseCase) publish(ctx context.Context, event queue.MeetingEvent) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.PublishMeetingEvent(ctx, event); err != nil {
		log.Printf("meeting %s stored but event %s was not published: %v", event.MeetingIDs[0], event.Type, err)
	}
}
