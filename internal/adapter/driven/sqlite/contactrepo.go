package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContactStore = (*ContactRepo)(nil)

// timeLayout is the format used for created_at/updated_at columns.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ContactRepo is the SQLite implementation of the ContactStore port interface.
type ContactRepo struct {
	db  *DB
	now func() time.Time
}

// NewContactRepo creates a new ContactRepo backed by the given DB.
func NewContactRepo(db *DB) *ContactRepo {
	return &ContactRepo{db: db, now: time.Now}
}

// ListAll returns every contact in insertion order. An empty table yields an
// empty, non-nil slice.
func (r *ContactRepo) ListAll(ctx context.Context) ([]model.Contact, error) {
	const query = `SELECT id, name, email, phone, created_at, updated_at FROM contacts ORDER BY rowid`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// GetByID retrieves a single contact. Returns driven.ErrContactNotFound if the
// ID does not exist.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	const query = `SELECT id, name, email, phone, created_at, updated_at FROM contacts WHERE id = ?`

	c, err := scanContact(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contact %s: %w", id, driven.ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", id, err)
	}

	return c, nil
}

// Create inserts a contact under a freshly generated ID and returns the stored
// row. Any ID already set on the argument is ignored.
func (r *ContactRepo) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	const query = `INSERT INTO contacts (id, name, email, phone, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	id, err := newContactID()
	if err != nil {
		return model.Contact{}, fmt.Errorf("generate contact id: %w", err)
	}

	now := r.now().UTC()
	stamp := now.Format(timeLayout)

	if _, err := r.db.Writer.ExecContext(ctx, query, id, contact.Name, contact.Email, contact.Phone, stamp, stamp); err != nil {
		return model.Contact{}, fmt.Errorf("create contact: %w", err)
	}

	contact.ID = id
	contact.CreatedAt = now
	contact.UpdatedAt = now
	return contact, nil
}

// Update overwrites name, email and phone of an existing contact. Returns
// driven.ErrContactNotFound if no row has the contact's ID.
func (r *ContactRepo) Update(ctx context.Context, contact model.Contact) error {
	const query = `UPDATE contacts SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, r.now().UTC().Format(timeLayout), contact.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", contact.ID, err)
	}

	return requireAffected(result, "update", contact.ID)
}

// Delete removes a contact. Returns driven.ErrContactNotFound if the ID does
// not exist.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM contacts WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}

	return requireAffected(result, "delete", id)
}

func requireAffected(result sql.Result, op, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s contact %s: %w", op, id, driven.ErrContactNotFound)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*model.Contact, error) {
	var c model.Contact
	var createdAt, updatedAt string

	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &c, nil
}

// parseTime tries the layouts SQLite and this package write.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
