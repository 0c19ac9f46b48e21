package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ListMeetingsUseCase struct {
	Repo     entity.MeetingRepository
	Resolver MeetingResolver
}

func NewListMeetingsUseCase(repo entity.MeetingRepository, resolver MeetingResolver) *ListMeetingsUseCase {
	return &ListMeetingsUseCase{Repo: repo, Resolver: resolver}
}

// Execute returns every active meeting with its creator's name. A creator
// that was soft-deleted shows as null.
func (uc *ListMeetingsUseCase) Execute(ctx context.Context) ([]MeetingOutput, error) {
	meetings, err := uc.Repo.ListActive(ctx)
	if err != nil {
		return nil, storageFailed("error fetching meetings", err)
	}

	out, err := uc.Resolver.Resolve(ctx, meetings, creatorName)
	if err != nil {
		return nil, storageFailed("error fetching meetings", err)
	}
	return out, nil
}
