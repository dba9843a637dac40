package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/rolo/internal/errors"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ContactRow is one row of the contacts table.
type ContactRow struct {
	ID   int64
	Name string
}

// DetailRow is one row of the contact_details table.
type DetailRow struct {
	ID        int64
	ContactID int64
	Type      string
	Value     string
}

// InsertContact inserts a contacts row and returns its id.
func InsertContact(ctx context.Context, q Querier, name string) (int64, error) {
	result, err := q.ExecContext(ctx, "INSERT INTO contacts (name) VALUES (?)", name)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// InsertDetail inserts a contact_details row and returns its id.
func InsertDetail(ctx context.Context, q Querier, contactID int64, typ, value string) (int64, error) {
	result, err := q.ExecContext(ctx,
		"INSERT INTO contact_details (contact_id, type, value) VALUES (?, ?, ?)",
		contactID, typ, value,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// ListContacts returns every contacts row in insertion order.
func ListContacts(ctx context.Context, q Querier) ([]ContactRow, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name FROM contacts ORDER BY id")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var result []ContactRow
	for rows.Next() {
		var r ContactRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, errors.NewInternal(err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return result, nil
}

// ListDetails returns the detail rows of one contact in insertion order.
func ListDetails(ctx context.Context, q Querier, contactID int64) ([]DetailRow, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, contact_id, type, value FROM contact_details WHERE contact_id = ? ORDER BY id",
		contactID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var result []DetailRow
	for rows.Next() {
		var r DetailRow
		if err := rows.Scan(&r.ID, &r.ContactID, &r.Type, &r.Value); err != nil {
			return nil, errors.NewInternal(err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return result, nil
}

// GetContactByName returns the first (lowest id) contacts row with exactly
// this name, or a NOT_FOUND error.
func GetContactByName(ctx context.Context, q Querier, name string) (*ContactRow, error) {
	var r ContactRow
	err := q.QueryRowContext(ctx,
		"SELECT id, name FROM contacts WHERE name = ? ORDER BY id LIMIT 1",
		name,
	).Scan(&r.ID, &r.Name)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &r, nil
}

// RenameContact updates the name of the contacts row with the given id.
func RenameContact(ctx context.Context, q Querier, id int64, name string) error {
	result, err := q.ExecContext(ctx, "UPDATE contacts SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireAffected(result, name)
}

// DeleteDetails removes every detail row of a contact and returns how many
// rows were deleted.
func DeleteDetails(ctx context.Context, q Querier, contactID int64) (int64, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM contact_details WHERE contact_id = ?", contactID)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// DeleteContact removes the contacts row with the given id.
// Its detail rows must already be gone (foreign key).
func DeleteContact(ctx context.Context, q Querier, id int64, name string) error {
	result, err := q.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireAffected(result, name)
}

// requireAffected returns NOT_FOUND when a statement touched no rows.
func requireAffected(result sql.Result, name string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(name)
	}
	return nil
}
