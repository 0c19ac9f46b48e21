package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ViewMeetingUseCase struct {
	Repo     entity.MeetingRepository
	Resolver MeetingResolver
}

func NewViewMeetingUseCase(repo entity.MeetingRepository, resolver MeetingResolver) *ViewMeetingUseCase {
	return &ViewMeetingUseCase{Repo: repo, Resolver: resolver}
}

// Execute loads one meeting with attendees and creator expanded. Absent and
// soft-deleted meetings are both reported as not found.
func (uc *ViewMeetingUseCase) Execute(ctx context.Context, id string) (*MeetingOutput, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFound("meeting not found")
	}

	meeting, err := uc.Repo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrMeetingNotFound) {
		return nil, notFound("meeting not found")
	}
	if err != nil {
		return nil, storageFailed("error retrieving meeting", err)
	}
	if meeting.Deleted {
		return nil, notFound("meeting not found")
	}

	out, err := uc.Resolver.Resolve(ctx, []entity.Meeting{*meeting}, contactName, leadName, creatorName)
	if err != nil {
		return nil, storageFailed("error retrieving meeting", err)
	}
	return &out[0], nil
}
