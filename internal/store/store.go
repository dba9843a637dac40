// Package store maps contact aggregates onto the contacts and
// contact_details tables.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/db"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/logger"
)

// Record is a stored contact together with its contacts row id.
type Record struct {
	ID      int64
	Contact contact.Contact
}

// Store reads and writes contacts. Every mutation runs in one transaction.
type Store struct {
	db   *sql.DB
	lggr logger.Logger
}

// New returns a Store over an initialized database.
func New(database *sql.DB, lggr logger.Logger) *Store {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Store{db: database, lggr: lggr.Named("store")}
}

// AddContact inserts the contact row followed by one detail row per detail.
// Details that cannot be stored unambiguously are rejected with INVALID_REQUEST.
func (s *Store) AddContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if err := checkEncodable(c); err != nil {
		return contact.Contact{}, err
	}
	var id int64
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		id, err = db.InsertContact(ctx, tx, c.Name)
		if err != nil {
			return err
		}
		return insertDetails(ctx, tx, id, c.Details)
	})
	if err != nil {
		return contact.Contact{}, wrap(ctx, err)
	}

	s.lggr.Debugw("contact added", "id", id, "name", c.Name, "details", len(c.Details))
	return c, nil
}

// GetAllContacts returns every stored contact ordered by row id, with details
// in insertion order.
func (s *Store) GetAllContacts(ctx context.Context) (contact.Book, error) {
	// Contact rows are fully read before detail queries start; the pool has a
	// single connection.
	rows, err := db.ListContacts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	book := make(contact.Book, 0, len(rows))
	for _, row := range rows {
		c, err := s.load(ctx, s.db, row)
		if err != nil {
			return nil, err
		}
		book = append(book, c)
	}
	return book, nil
}

// GetContactByName returns the first stored contact (lowest row id) whose
// name matches exactly. A miss returns a NOT_FOUND error.
func (s *Store) GetContactByName(ctx context.Context, name string) (*Record, error) {
	row, err := db.GetContactByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, s.db, *row)
	if err != nil {
		return nil, err
	}
	return &Record{ID: row.ID, Contact: c}, nil
}

// UpdateContact replaces the first contact named oldName with c. The row id is
// kept; the detail rows are deleted and reinserted. Returns false when no
// contact has that name.
func (s *Store) UpdateContact(ctx context.Context, oldName string, c contact.Contact) (bool, error) {
	if err := checkEncodable(c); err != nil {
		return false, err
	}
	var id int64
	found := true
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		row, err := db.GetContactByName(ctx, tx, oldName)
		if errors.Is(err, errors.ErrNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		id = row.ID

		if _, err := db.DeleteDetails(ctx, tx, id); err != nil {
			return err
		}
		if err := db.RenameContact(ctx, tx, id, c.Name); err != nil {
			return err
		}
		return insertDetails(ctx, tx, id, c.Details)
	})
	if err != nil {
		return false, wrap(ctx, err)
	}
	if !found {
		return false, nil
	}

	s.lggr.Debugw("contact updated", "id", id, "old_name", oldName, "name", c.Name)
	return true, nil
}

// DeleteContact removes the first contact with this name and its details.
// Returns false when no contact has that name.
func (s *Store) DeleteContact(ctx context.Context, name string) (bool, error) {
	var id int64
	found := true
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		row, err := db.GetContactByName(ctx, tx, name)
		if errors.Is(err, errors.ErrNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		id = row.ID

		if _, err := db.DeleteDetails(ctx, tx, id); err != nil {
			return err
		}
		return db.DeleteContact(ctx, tx, id, name)
	})
	if err != nil {
		return false, wrap(ctx, err)
	}
	if !found {
		return false, nil
	}

	s.lggr.Debugw("contact deleted", "id", id, "name", name)
	return true, nil
}

// load reads and decodes the details of one contacts row.
func (s *Store) load(ctx context.Context, q db.Querier, row db.ContactRow) (contact.Contact, error) {
	detailRows, err := db.ListDetails(ctx, q, row.ID)
	if err != nil {
		return contact.Contact{}, err
	}

	c := contact.Contact{Name: row.Name}
	for _, dr := range detailRows {
		d, err := contact.Decode(contact.Kind(dr.Type), dr.Value)
		if err != nil {
			s.lggr.Errorw("undecodable contact detail",
				"detail_id", dr.ID, "contact_id", row.ID, "type", dr.Type, "err", err)
			return contact.Contact{}, errors.NewDecodeFailed(dr.ID, err)
		}
		c.Details = append(c.Details, d)
	}
	return c, nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, contactID int64, details []contact.Detail) error {
	for _, d := range details {
		kind, value := contact.Encode(d)
		if _, err := db.InsertDetail(ctx, tx, contactID, string(kind), value); err != nil {
			return err
		}
	}
	return nil
}

// wrap maps a failed write to CANCELLED when the context ended, even if a
// query already wrapped the failure as INTERNAL. Other structured errors pass
// through; anything else becomes INTERNAL.
func wrap(ctx context.Context, err error) error {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewCancelled("write")
	}
	var rErr *errors.RoloError
	if stderrors.As(err, &rErr) {
		return err
	}
	return errors.NewInternal(err)
}

// checkEncodable rejects details whose encoded form would not decode back
// to the same values.
func checkEncodable(c contact.Contact) error {
	if err := contact.Validate(c); err != nil {
		return errors.NewInvalidRequest(err.Error())
	}
	return nil
}
