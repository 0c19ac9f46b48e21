package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

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

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMeetingScheduled(to, name string, event MeetingEvent) error {
	args := m.Called(to, name, event)
	return args.Error(0)
}

func createdEvent(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(MeetingEvent{
		EventID:    "evt-1",
		Type:       EventMeetingCreated,
		MeetingIDs: []string{"m-1"},
		Agenda:     "Kickoff",
		CreateBy:   "u-1",
	})
	require.NoError(t, err)
	return body
}

func TestWorkerNotifiesCreator(t *testing.T) {
	users := new(MockReferenceSource)
	notifier := new(MockNotifier)
	users.On("FindActive", mock.Anything, entity.KindUser, []string{"u-1"}, []string{"email", "firstName"}).
		Return(map[string]entity.Attributes{"u-1": {"email": "ana@ligue.local", "firstName": "Ana"}}, nil)
	notifier.On("SendMeetingScheduled", "ana@ligue.local", "Ana", mock.MatchedBy(func(e MeetingEvent) bool {
		return e.Agenda == "Kickoff"
	})).Return(nil)

	err := NewWorker(nil, users, notifier).Handle(context.Background(), createdEvent(t))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestWorkerSkipsDeletedCreator(t *testing.T) {
	users := new(MockReferenceSource)
	notifier := new(MockNotifier)
	users.On("FindActive", mock.Anything, entity.KindUser, []string{"u-1"}, mock.Anything).
		Return(map[string]entity.Attributes{}, nil)

	err := NewWorker(nil, users, notifier).Handle(context.Background(), createdEvent(t))

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "SendMeetingScheduled", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerRejectsMalformedMessages(t *testing.T) {
	w := NewWorker(nil, new(MockReferenceSource), new(MockNotifier))

	for _, body := range []string{`not json`, `{}`, `{"type":"meeting.created"}`} {
		err := w.Handle(context.Background(), []byte(body))
		assert.ErrorIs(t, err, ErrMalformedEvent, body)
	}
}

func TestWorkerIgnoresDeletedEvents(t *testing.T) {
	users := new(MockReferenceSource)
	body, err := json.Marshal(MeetingEvent{Type: EventMeetingDeleted, MeetingIDs: []string{"m-1"}})
	require.NoError(t, err)

	require.NoError(t, NewWorker(nil, users, new(MockNotifier)).Handle(context.Background(), body))
	users.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerPropagatesFailures(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		users := new(MockReferenceSource)
		users.On("FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		err := NewWorker(nil, users, new(MockNotifier)).Handle(context.Background(), createdEvent(t))
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("send", func(t *testing.T) {
		users := new(MockReferenceSource)
		notifier := new(MockNotifier)
		users.On("FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(map[string]entity.Attributes{"u-1": {"email": "ana@ligue.local", "firstName": "Ana"}}, nil)
		notifier.On("SendMeetingScheduled", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp 550"))

		err := NewWorker(nil, users, notifier).Handle(context.Background(), createdEvent(t))
		assert.ErrorContains(t, err, "smtp 550")
	})
}
