package usecase

import (
	"encoding/json"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AddMeetingInput is the body of POST /meeting. A createBy sent by the client
// is ignored; the creator comes from the authenticated identity.
type AddMeetingInput struct {
	Agenda        string   `json:"agenda"`
	DateTime      string   `json:"dateTime"`
	Location      string   `json:"location"`
	Notes         string   `json:"notes"`
	Related       string   `json:"related"`
	Attendees     []string `json:"attendees"`
	AttendeesLead []string `json:"attendeesLead"`
}

// Reference is a stored identifier, optionally expanded with the referenced
// record's projected attributes. Unexpanded references encode as the bare id.
type Reference struct {
	ID         string
	Attributes entity.Attributes
}

func (r Reference) MarshalJSON() ([]byte, error) {
	if r.Attributes == nil {
		return json.Marshal(r.ID)
	}
	out := make(map[string]string, len(r.Attributes)+1)
	for k, v := range r.Attributes {
		out[k] = v
	}
	out["id"] = r.ID
	return json.Marshal(out)
}

type MeetingOutput struct {
	ID            string      `json:"id"`
	Agenda        string      `json:"agenda"`
	DateTime      time.Time   `json:"dateTime"`
	Location      string      `json:"location"`
	Notes         string      `json:"notes"`
	Related       string      `json:"related"`
	Attendees     []Reference `json:"attendees"`
	AttendeesLead []Reference `json:"attendeesLead"`
	CreateBy      *Reference  `json:"createBy"`
	Deleted       bool        `json:"deleted"`
	Timestamp     time.Time   `json:"timestamp"`
}

func newMeetingOutput(m entity.Meeting) MeetingOutput {
	out := MeetingOutput{
		ID:            m.ID,
		Agenda:        m.Agenda,
		DateTime:      m.DateTime,
		Location:      m.Location,
		Notes:         m.Notes,
		Related:       string(m.Related),
		Attendees:     rawReferences(m.Attendees),
		AttendeesLead: rawReferences(m.AttendeesLead),
		Deleted:       m.Deleted,
		Timestamp:     m.Timestamp,
	}
	if m.CreateBy != "" {
		out.CreateBy = &Reference{ID: m.CreateBy}
	}
	return out
}

func rawReferences(ids []string) []Reference {
	refs := make([]Reference, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Reference{ID: id})
	}
	return refs
}

type DeleteManyInput struct {
	IDs []string `json:"ids"`
}

type DeleteManyOutput struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}
