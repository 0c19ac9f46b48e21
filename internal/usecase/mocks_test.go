package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *entity.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) FindByID(ctx context.Context, id string) (*entity.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListActive(ctx context.Context) ([]entity.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMeetingRepository) SoftDeleteMany(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReferenceSource struct {
	mock.Mock
}

func (m *MockReferenceSource) FindActive(ctx context.Context, kind entity.ReferenceKind, ids []string, attrs []string) (map[string]entity.Attributes, error) {
	args := m.Called(ctx, kind, ids, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.Attributes), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishMeetingEvent(ctx context.Context, event queue.MeetingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
