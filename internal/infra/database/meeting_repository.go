package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Upper bound on ids per IN clause; keeps SQLite under its variable limit.
const maxBatch = 500

const meetingColumns = `id, agenda, date_time, location, notes, related, attendees, attendees_lead, create_by, deleted, created_at`

type MeetingRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

var _ entity.MeetingRepository = (*MeetingRepository)(nil)

func NewMeetingRepository(db *sql.DB, dialect Dialect) *MeetingRepository {
	return &MeetingRepository{DB: db, Dialect: dialect}
}

func (r *MeetingRepository) Create(ctx context.Context, m *entity.Meeting) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	}
	m.NormalizeAttendees()

	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return fmt.Errorf("encode attendees: %w", err)
	}
	attendeesLead, err := json.Marshal(m.AttendeesLead)
	if err != nil {
		return fmt.Errorf("encode attendeesLead: %w", err)
	}

	query := r.Dialect.Rebind(`
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err = r.DB.ExecContext(ctx, query,
		m.ID,
		m.Agenda,
		toMillis(m.DateTime),
		m.Location,
		m.Notes,
		string(m.Related),
		string(attendees),
		string(attendeesLead),
		m.CreateBy,
		m.Deleted,
		toMillis(m.Timestamp),
	)
	if err != nil {
		return wrapErr("insert meeting", err)
	}
	return nil
}

// FindByID returns the meeting even when it is soft-deleted.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*entity.Meeting, error) {
	query := r.Dialect.Rebind(`SELECT ` + meetingColumns + ` FROM meetings WHERE id = ?`)

	m, err := scanMeeting(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrMeetingNotFound
	}
	if err != nil {
		return nil, wrapErr("find meeting", err)
	}
	return m, nil
}

func (r *MeetingRepository) ListActive(ctx context.Context) ([]entity.Meeting, error) {
	query := r.Dialect.Rebind(`
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE deleted = ?
		ORDER BY created_at, id
	`)

	rows, err := r.DB.QueryContext(ctx, query, false)
	if err != nil {
		return nil, wrapErr("list meetings", err)
	}
	defer rows.Close()

	meetings := []entity.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, wrapErr("scan meeting", err)
		}
		meetings = append(meetings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list meetings", err)
	}
	return meetings, nil
}

// SoftDelete flags one active meeting. Absent and already deleted ids both
// return entity.ErrMeetingNotFound.
func (r *MeetingRepository) SoftDelete(ctx context.Context, id string) error {
	query := r.Dialect.Rebind(`UPDATE meetings SET deleted = ? WHERE id = ? AND deleted = ?`)

	res, err := r.DB.ExecContext(ctx, query, true, id, false)
	if err != nil {
		return wrapErr("delete meeting", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete meeting", err)
	}
	if n == 0 {
		return entity.ErrMeetingNotFound
	}
	return nil
}

// SoftDeleteMany flags every active meeting in ids and returns the ids it
// changed. Absent and already deleted ids are left out. Each chunk of ids is
// its own statement; there is no transaction spanning chunks.
func (r *MeetingRepository) SoftDeleteMany(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, entity.ErrEmptyIDSet
	}

	changed := []string{}
	for _, chunk := range chunkIDs(ids, maxBatch) {
		query := r.Dialect.Rebind(`UPDATE meetings SET deleted = ? WHERE deleted = ? AND id IN (` + placeholders(len(chunk)) + `) RETURNING id`)

		args := make([]any, 0, len(chunk)+2)
		args = append(args, true, false)
		for _, id := range chunk {
			args = append(args, id)
		}

		if err := r.deleteChunk(ctx, query, args, &changed); err != nil {
			return changed, wrapErr("delete meetings", err)
		}
	}
	return changed, nil
}

func (r *MeetingRepository) deleteChunk(ctx context.Context, query string, args []any, changed *[]string) error {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		*changed = append(*changed, id)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*entity.Meeting, error) {
	var (
		m             entity.Meeting
		related       string
		dateTime      int64
		createdAt     int64
		attendees     string
		attendeesLead string
	)

	err := row.Scan(
		&m.ID,
		&m.Agenda,
		&dateTime,
		&m.Location,
		&m.Notes,
		&related,
		&attendees,
		&attendeesLead,
		&m.CreateBy,
		&m.Deleted,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	m.Related = entity.Related(related)
	m.DateTime = fromMillis(dateTime)
	m.Timestamp = fromMillis(createdAt)

	if err := decodeIDs(attendees, &m.Attendees); err != nil {
		return nil, fmt.Errorf("decode attendees of %s: %w", m.ID, err)
	}
	if err := decodeIDs(attendeesLead, &m.AttendeesLead); err != nil {
		return nil, fmt.Errorf("decode attendeesLead of %s: %w", m.ID, err)
	}
	return &m, nil
}

func decodeIDs(raw string, dst *[]string) error {
	*dst = []string{}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// wrapErr logs the SQLSTATE of PostgreSQL failures before wrapping.
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		log.Printf("[db] %s failed: %s (%s) %s", op, pqErr.Code.Name(), pqErr.Code, pqErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
