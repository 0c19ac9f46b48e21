package seed

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Fixture is the YAML layout of a reference directory seed file.
type Fixture struct {
	Users    []entity.User    `yaml:"users"`
	Contacts []entity.Contact `yaml:"contacts"`
	Leads    []entity.Lead    `yaml:"leads"`
}

type Directory interface {
	entity.UserRepositoryInterface
	entity.ContactRepositoryInterface
	entity.LeadRepositoryInterface
}

type Summary struct {
	Users    int
	Contacts int
	Leads    int
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	seen := map[string]int{}
	check := func(kind string, i int, id string) error {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%s #%d without id", kind, i)
		}
		if first, dup := seen[kind+"/"+id]; dup {
			return fmt.Errorf("duplicate %s id %q at #%d, first seen at #%d", kind, id, i, first)
		}
		seen[kind+"/"+id] = i
		return nil
	}

	for i, u := range f.Users {
		if err := check("user", i, u.ID); err != nil {
			return err
		}
	}
	for i, c := range f.Contacts {
		if err := check("contact", i, c.ID); err != nil {
			return err
		}
	}
	for i, l := range f.Leads {
		if err := check("lead", i, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Apply upserts every record; rerunning a fixture is idempotent.
func Apply(ctx context.Context, dir Directory, f *Fixture) (Summary, error) {
	var s Summary
	for i := range f.Users {
		if err := dir.UpsertUser(ctx, &f.Users[i]); err != nil {
			return s, fmt.Errorf("user %s: %w", f.Users[i].ID, err)
		}
		s.Users++
	}
	for i := range f.Contacts {
		if err := dir.UpsertContact(ctx, &f.Contacts[i]); err != nil {
			return s, fmt.Errorf("contact %s: %w", f.Contacts[i].ID, err)
		}
		s.Contacts++
	}
	for i := range f.Leads {
		if err := dir.UpsertLead(ctx, &f.Leads[i]); err != nil {
			return s, fmt.Errorf("lead %s: %w", f.Leads[i].ID, err)
		}
		s.Leads++
	}
	return s, nil
}
