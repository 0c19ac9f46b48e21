package entity

import (
	"context"
	"errors"
)

var (
	ErrUnknownAttribute  = errors.New("unknown reference attribute")
	ErrReferenceNotFound = errors.New("reference not found")
)

// ReferenceKind names the collection a stored identifier points into.
type ReferenceKind string

const (
	KindUser    ReferenceKind = "User"
	KindContact ReferenceKind = "Contact"
	KindLead    ReferenceKind = "Lead"
)

// Attributes is the projected view of a referenced record, keyed by
// attribute name (firstName, fullName, leadName, ...).
type Attributes map[string]string

// ReferenceSource looks up active (non-deleted) records by id. Ids that are
// missing or soft-deleted are simply absent from the returned map.
type ReferenceSource interface {
	FindActive(ctx context.Context, kind ReferenceKind, ids []string, attrs []string) (map[string]Attributes, error)
}

// DirectoryRepository maintains the records meetings point at.
type DirectoryRepository interface {
	ReferenceSource
	UserRepositoryInterface
	ContactRepositoryInterface
	LeadRepositoryInterface
	SoftDeleteReference(ctx context.Context, kind ReferenceKind, id string) error
}
