package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type referenceTable struct {
	name    string
	columns map[string]string // attribute -> column
}

var referenceTables = map[entity.ReferenceKind]referenceTable{
	entity.KindUser: {
		name: "users",
		columns: map[string]string{
			"firstName": "first_name",
			"lastName":  "last_name",
			"email":     "email",
		},
	},
	entity.KindContact: {
		name: "contacts",
		columns: map[string]string{
			"fullName":    "full_name",
			"email":       "email",
			"phoneNumber": "phone_number",
		},
	},
	entity.KindLead: {
		name: "leads",
		columns: map[string]string{
			"leadName":        "lead_name",
			"leadEmail":       "lead_email",
			"leadPhoneNumber": "lead_phone_number",
		},
	},
}

// DirectoryRepository reads and maintains the users, contacts and leads that
// meetings reference.
type DirectoryRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

var _ entity.DirectoryRepository = (*DirectoryRepository)(nil)

func NewDirectoryRepository(db *sql.DB, dialect Dialect) *DirectoryRepository {
	return &DirectoryRepository{DB: db, Dialect: dialect}
}

// FindActive returns the requested attributes of every non-deleted record in
// ids. Missing and soft-deleted ids are left out of the result.
func (r *DirectoryRepository) FindActive(ctx context.Context, kind entity.ReferenceKind, ids []string, attrs []string) (map[string]entity.Attributes, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	cols := make([]string, 0, len(attrs)+1)
	cols = append(cols, "id")
	for _, attr := range attrs {
		col, ok := table.columns[attr]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", entity.ErrUnknownAttribute, kind, attr)
		}
		cols = append(cols, col)
	}

	found := make(map[string]entity.Attributes, len(ids))
	for _, chunk := range chunkIDs(ids, maxBatch) {
		query := r.Dialect.Rebind(fmt.Sprintf(
			`SELECT %s FROM %s WHERE deleted = ? AND id IN (%s)`,
			strings.Join(cols, ", "), table.name, placeholders(len(chunk)),
		))

		args := make([]any, 0, len(chunk)+1)
		args = append(args, false)
		for _, id := range chunk {
			args = append(args, id)
		}

		if err := r.collect(ctx, query, args, attrs, found); err != nil {
			return nil, wrapErr("find "+table.name, err)
		}
	}
	return found, nil
}

func (r *DirectoryRepository) collect(ctx context.Context, query string, args []any, attrs []string, found map[string]entity.Attributes) error {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		values := make([]string, len(attrs))
		dest := make([]any, 0, len(attrs)+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}

		record := make(entity.Attributes, len(attrs))
		for i, attr := range attrs {
			record[attr] = values[i]
		}
		found[id] = record
	}
	return rows.Err()
}

func (r *DirectoryRepository) UpsertUser(ctx context.Context, u *entity.User) error {
	query := r.Dialect.Rebind(`
		INSERT INTO users (id, first_name, last_name, email, deleted)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			deleted = excluded.deleted
	`)
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.FirstName, u.LastName, u.Email, u.Deleted)
	if err != nil {
		return wrapErr("upsert user", err)
	}
	return nil
}

func (r *DirectoryRepository) UpsertContact(ctx context.Context, c *entity.Contact) error {
	query := r.Dialect.Rebind(`
		INSERT INTO contacts (id, full_name, email, phone_number, deleted)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			phone_number = excluded.phone_number,
			deleted = excluded.deleted
	`)
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.FullName, c.Email, c.PhoneNumber, c.Deleted)
	if err != nil {
		return wrapErr("upsert contact", err)
	}
	return nil
}

func (r *DirectoryRepository) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	query := r.Dialect.Rebind(`
		INSERT INTO leads (id, lead_name, lead_email, lead_phone_number, deleted)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			lead_name = excluded.lead_name,
			lead_email = excluded.lead_email,
			lead_phone_number = excluded.lead_phone_number,
			deleted = excluded.deleted
	`)
	_, err := r.DB.ExecContext(ctx, query, lead.ID, lead.LeadName, lead.LeadEmail, lead.LeadPhoneNumber, lead.Deleted)
	if err != nil {
		return wrapErr("upsert lead", err)
	}
	return nil
}

func (r *DirectoryRepository) SoftDeleteReference(ctx context.Context, kind entity.ReferenceKind, id string) error {
	table, ok := referenceTables[kind]
	if !ok {
		return fmt.Errorf("unknown reference kind %q", kind)
	}

	query := r.Dialect.Rebind(fmt.Sprintf(`UPDATE %s SET deleted = ? WHERE id = ?`, table.name))
	res, err := r.DB.ExecContext(ctx, query, true, id)
	if err != nil {
		return wrapErr("delete "+table.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete "+table.name, err)
	}
	if n == 0 {
		return entity.ErrReferenceNotFound
	}
	return nil
}
