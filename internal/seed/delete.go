package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Ref names one directory record as kind:id, e.g. "user:7d1f...".
type Ref struct {
	Kind entity.ReferenceKind
	ID   string
}

type Remover interface {
	SoftDeleteReference(ctx context.Context, kind entity.ReferenceKind, id string) error
}

var refKinds = map[string]entity.ReferenceKind{
	"user":    entity.KindUser,
	"contact": entity.KindContact,
	"lead":    entity.KindLead,
}

func ParseRef(value string) (Ref, error) {
	kind, id, ok := strings.Cut(value, ":")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return Ref{}, fmt.Errorf("reference %q: want kind:id", value)
	}
	k, ok := refKinds[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return Ref{}, fmt.Errorf("reference %q: kind must be user, contact or lead", value)
	}
	return Ref{Kind: k, ID: id}, nil
}

// RefList collects repeated -delete flags.
type RefList []Ref

func (l *RefList) String() string {
	parts := make([]string, 0, len(*l))
	for _, r := range *l {
		parts = append(parts, strings.ToLower(string(r.Kind))+":"+r.ID)
	}
	return strings.Join(parts, ",")
}

func (l *RefList) Set(value string) error {
	ref, err := ParseRef(value)
	if err != nil {
		return err
	}
	*l = append(*l, ref)
	return nil
}

// Remove soft-deletes each reference. Meetings pointing at them keep the id
// but stop resolving it.
func Remove(ctx context.Context, dir Remover, refs []Ref) error {
	for _, ref := range refs {
		if err := dir.SoftDeleteReference(ctx, ref.Kind, ref.ID); err != nil {
			return fmt.Errorf("delete %s %s: %w", ref.Kind, ref.ID, err)
		}
	}
	return nil
}
