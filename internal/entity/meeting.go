package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrEmptyIDSet      = errors.New("at least one id is required")
	ErrAgendaRequired  = errors.New("agenda is required")
	ErrDateTimeMissing = errors.New("dateTime is required")
)

// Related selects which attendee list of a Meeting is active.
type Related string

const (
	RelatedContact Related = "Contact"
	RelatedLead    Related = "Lead"
	RelatedNone    Related = "None"
)

func (r Related) Valid() bool {
	switch r {
	case RelatedContact, RelatedLead, RelatedNone:
		return true
	}
	return false
}

// Meeting is persisted with raw reference ids; names are resolved at read time.
type Meeting struct {
	ID            string    `json:"id"`
	Agenda        string    `json:"agenda"`
	DateTime      time.Time `json:"dateTime"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
	Related       Related   `json:"related"`
	Attendees     []string  `json:"attendees"`
	AttendeesLead []string  `json:"attendeesLead"`
	CreateBy      string    `json:"createBy"`
	Deleted       bool      `json:"deleted"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewMeeting truncates times to milliseconds, the precision they are stored at.
func NewMeeting(agenda string, dateTime time.Time, location, notes string, related Related, attendees, attendeesLead []string, createBy string) (*Meeting, error) {
	m := &Meeting{
		ID:            uuid.New().String(),
		Agenda:        strings.TrimSpace(agenda),
		DateTime:      dateTime.UTC().Truncate(time.Millisecond),
		Location:      location,
		Notes:         notes,
		Related:       related,
		Attendees:     attendees,
		AttendeesLead: attendeesLead,
		CreateBy:      createBy,
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
	}
	m.NormalizeAttendees()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Meeting) Validate() error {
	if strings.TrimSpace(m.Agenda) == "" {
		return ErrAgendaRequired
	}
	if m.DateTime.IsZero() {
		return ErrDateTimeMissing
	}
	return nil
}

// NormalizeAttendees clears whichever attendee list does not match Related.
// An unset Related is treated as None.
func (m *Meeting) NormalizeAttendees() {
	if m.Related == "" {
		m.Related = RelatedNone
	}
	switch m.Related {
	case RelatedContact:
		m.AttendeesLead = []string{}
	case RelatedLead:
		m.Attendees = []string{}
	default:
		m.Attendees = []string{}
		m.AttendeesLead = []string{}
	}
	if m.Attendees == nil {
		m.Attendees = []string{}
	}
	if m.AttendeesLead == nil {
		m.AttendeesLead = []string{}
	}
}

type MeetingRepository interface {
	Create(ctx context.Context, m *Meeting) error
	FindByID(ctx context.Context, id string) (*Meeting, error)
	ListActive(ctx context.Context) ([]Meeting, error)
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteMany(ctx context.Context, ids []string) ([]string, error)
}
