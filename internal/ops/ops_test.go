package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/db"
	"github.com/hpungsan/rolo/internal/logger"
	"github.com/hpungsan/rolo/internal/store"
)

// fakeRepo is an in-memory Repository that counts mutator calls.
type fakeRepo struct {
	book    contact.Book
	adds    int
	updates int
	deletes int
	readErr error
}

func (f *fakeRepo) AddContact(_ context.Context, c contact.Contact) (contact.Contact, error) {
	f.adds++
	f.book = contact.Add(c, f.book)
	return c, nil
}

func (f *fakeRepo) GetAllContacts(context.Context) (contact.Book, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append(contact.Book(nil), f.book...), nil
}

func (f *fakeRepo) UpdateContact(_ context.Context, oldName string, c contact.Contact) (bool, error) {
	f.updates++
	for i := range f.book {
		if f.book[i].Name == oldName {
			f.book[i] = c
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) DeleteContact(_ context.Context, name string) (bool, error) {
	f.deletes++
	for i := range f.book {
		if f.book[i].Name == name {
			f.book = append(f.book[:i:i], f.book[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newFakeService(t *testing.T, book ...contact.Contact) (*Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{book: book}
	return NewService(repo, config.DefaultConfig(), logger.Test(t)), repo
}

// newSQLiteService returns a Service over a fresh on-disk database.
func newSQLiteService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	database, err := db.Init(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	lggr := logger.Test(t)
	return NewService(store.New(database, lggr), cfg, lggr)
}

// exportsDir points HOME at a temp directory and returns its ~/.rolo/exports,
// created, so import and export paths pass the default directory check.
// Call it once per test.
func exportsDir(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir, err := DefaultExportsDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func ana() contact.Contact {
	return contact.Contact{
		Name: "Ana",
		Details: []contact.Detail{
			contact.Telephone{CountryCode: "1", CityCode: "555", Number: "1234"},
			contact.Email{Address: "ana@x.com"},
			contact.SocialMedia{Platform: "tw", Handle: "ana_t"},
		},
	}
}

func named(name string) contact.Contact {
	return contact.Contact{Name: name}
}
