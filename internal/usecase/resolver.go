package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Reference paths a Populate directive can expand.
const (
	PathCreateBy      = "createBy"
	PathAttendees     = "attendees"
	PathAttendeesLead = "attendeesLead"
)

// Populate asks the resolver to expand Path, keeping only the Select attributes.
type Populate struct {
	Path   string
	Select []string
}

var pathKinds = map[string]entity.ReferenceKind{
	PathCreateBy:      entity.KindUser,
	PathAttendees:     entity.KindContact,
	PathAttendeesLead: entity.KindLead,
}

var (
	creatorName = Populate{Path: PathCreateBy, Select: []string{"firstName", "lastName"}}
	contactName = Populate{Path: PathAttendees, Select: []string{"fullName"}}
	leadName    = Populate{Path: PathAttendeesLead, Select: []string{"leadName"}}
)

type ReferenceResolver struct {
	Source entity.ReferenceSource
}

func NewReferenceResolver(source entity.ReferenceSource) *ReferenceResolver {
	return &ReferenceResolver{Source: source}
}

// Resolve converts meetings to their output form and expands the referenced
// paths. Each directive costs one lookup regardless of how many meetings are
// passed. References to missing or soft-deleted records are dropped, and a
// dropped creator becomes null. The store is never written.
func (r *ReferenceResolver) Resolve(ctx context.Context, meetings []entity.Meeting, directives ...Populate) ([]MeetingOutput, error) {
	out := make([]MeetingOutput, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, newMeetingOutput(m))
	}

	for _, d := range directives {
		kind, ok := pathKinds[d.Path]
		if !ok {
			return nil, fmt.Errorf("populate %q: unknown path", d.Path)
		}

		ids := collectIDs(meetings, d.Path)
		found := map[string]entity.Attributes{}
		if len(ids) > 0 {
			var err error
			found, err = r.Source.FindActive(ctx, kind, ids, d.Select)
			if err != nil {
				return nil, fmt.Errorf("populate %q: %w", d.Path, err)
			}
		}

		for i := range out {
			switch d.Path {
			case PathCreateBy:
				out[i].CreateBy = expandOne(out[i].CreateBy, found)
			case PathAttendees:
				out[i].Attendees = expandMany(out[i].Attendees, found)
			case PathAttendeesLead:
				out[i].AttendeesLead = expandMany(out[i].AttendeesLead, found)
			}
		}
	}

	return out, nil
}

func collectIDs(meetings []entity.Meeting, path string) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, m := range meetings {
		switch path {
		case PathCreateBy:
			add(m.CreateBy)
		case PathAttendees:
			for _, id := range m.Attendees {
				add(id)
			}
		case PathAttendeesLead:
			for _, id := range m.AttendeesLead {
				add(id)
			}
		}
	}
	return ids
}

func expandOne(ref *Reference, found map[string]entity.Attributes) *Reference {
	if ref == nil {
		return nil
	}
	attrs, ok := found[ref.ID]
	if !ok {
		return nil
	}
	return &Reference{ID: ref.ID, Attributes: attrs}
}

func expandMany(refs []Reference, found map[string]entity.Attributes) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if attrs, ok := found[ref.ID]; ok {
			out = append(out, Reference{ID: ref.ID, Attributes: attrs})
		}
	}
	return out
}
