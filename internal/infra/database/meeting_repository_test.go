package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func newMeeting(t *testing.T, agenda string) *entity.Meeting {
	t.Helper()
	m, err := entity.NewMeeting(agenda, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "HQ", "bring slides", entity.RelatedContact, []string{"c1", "c2"}, nil, "u1")
	require.NoError(t, err)
	return m
}

func TestMeetingRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	m := newMeeting(t, "Sync")
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)

	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "Sync", got.Agenda)
	assert.True(t, got.DateTime.Equal(m.DateTime))
	assert.Equal(t, time.UTC, got.DateTime.Location())
	assert.Equal(t, "HQ", got.Location)
	assert.Equal(t, "bring slides", got.Notes)
	assert.Equal(t, entity.RelatedContact, got.Related)
	assert.Equal(t, []string{"c1", "c2"}, got.Attendees)
	assert.Equal(t, []string{}, got.AttendeesLead)
	assert.Equal(t, "u1", got.CreateBy)
	assert.False(t, got.Deleted)
	assert.Equal(t, m.Timestamp.UnixMilli(), got.Timestamp.UnixMilli())
}

func TestMeetingRepositoryCreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	m := &entity.Meeting{Agenda: "Kickoff", DateTime: time.Now(), CreateBy: "u1", Related: entity.RelatedLead, Attendees: []string{"c1"}, AttendeesLead: []string{"l1"}}
	require.NoError(t, repo.Create(ctx, m))

	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())

	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Attendees)
	assert.Equal(t, []string{"l1"}, got.AttendeesLead)
}

func TestMeetingRepositoryCreateValidates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMeetingRepository(db, SQLite)

	err := repo.Create(ctx, &entity.Meeting{DateTime: time.Now(), CreateBy: "u1"})
	assert.ErrorIs(t, err, entity.ErrAgendaRequired)

	err = repo.Create(ctx, &entity.Meeting{Agenda: "Sync", CreateBy: "u1"})
	assert.ErrorIs(t, err, entity.ErrDateTimeMissing)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM meetings").Scan(&count))
	assert.Zero(t, count)
}

func TestMeetingRepositoryFindMissing(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrMeetingNotFound)
}

func TestMeetingRepositoryListActiveSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	first := newMeeting(t, "First")
	second := newMeeting(t, "Second")
	second.Timestamp = first.Timestamp.Add(time.Second)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Agenda)
	assert.Equal(t, "Second", list[1].Agenda)

	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	list, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestMeetingRepositoryListActiveEmpty(t *testing.T) {
	list, err := NewMeetingRepository(newTestDB(t), SQLite).ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMeetingRepositorySoftDeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	m := newMeeting(t, "Sync")
	require.NoError(t, repo.Create(ctx, m))

	require.NoError(t, repo.SoftDelete(ctx, m.ID))
	assert.ErrorIs(t, repo.SoftDelete(ctx, m.ID), entity.ErrMeetingNotFound)

	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestMeetingRepositorySoftDeleteMissing(t *testing.T) {
	repo := NewMeetingRepository(newTestDB(t), SQLite)
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), "missing"), entity.ErrMeetingNotFound)
}

func TestMeetingRepositorySoftDeleteMany(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	a := newMeeting(t, "A")
	b := newMeeting(t, "B")
	c := newMeeting(t, "C")
	for _, m := range []*entity.Meeting{a, b, c} {
		require.NoError(t, repo.Create(ctx, m))
	}

	changed, err := repo.SoftDeleteMany(ctx, []string{a.ID, b.ID, "unknown"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, changed)

	changed, err = repo.SoftDeleteMany(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Empty(t, changed)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestMeetingRepositorySoftDeleteManyUnknownOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	m := newMeeting(t, "Sync")
	require.NoError(t, repo.Create(ctx, m))

	changed, err := repo.SoftDeleteMany(ctx, []string{"ghost"})
	require.NoError(t, err)
	assert.Empty(t, changed)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMeetingRepositorySoftDeleteManyEmpty(t *testing.T) {
	_, err := NewMeetingRepository(newTestDB(t), SQLite).SoftDeleteMany(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrEmptyIDSet)
}

func TestMeetingRepositorySoftDeleteManyAcrossChunks(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	ids := make([]string, 0, maxBatch+3)
	for i := 0; i < maxBatch+3; i++ {
		m := newMeeting(t, fmt.Sprintf("M%d", i))
		require.NoError(t, repo.Create(ctx, m))
		ids = append(ids, m.ID)
	}

	changed, err := repo.SoftDeleteMany(ctx, ids)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, changed)
}

func TestMeetingRepositorySoftDeleteManyReturnsOnlyChanged(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	active := newMeeting(t, "Active")
	gone := newMeeting(t, "Gone")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, gone))
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	changed, err := repo.SoftDeleteMany(ctx, []string{active.ID, gone.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{active.ID}, changed)
}

func TestMeetingRepositoryRoundTripsTimesExactly(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestDB(t), SQLite)

	m, err := entity.NewMeeting("Sync", time.Date(2024, 1, 1, 10, 0, 0, 987654321, time.UTC), "", "", entity.RelatedNone, nil, nil, "u1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)

	assert.Equal(t, m.DateTime, got.DateTime)
	assert.Equal(t, m.Timestamp, got.Timestamp)
}
