package ops

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/logger"
)

func TestHandleAddContact(t *testing.T) {
	svc, repo := newFakeService(t, named("Bob"))
	ctx := context.Background()

	got, err := svc.HandleAddContact(ctx, AddContactCommand{Contact: ana()})
	require.NoError(t, err)
	assert.True(t, ana().Equal(got))
	assert.Equal(t, 1, repo.adds)

	all, err := svc.HandleGetAllContacts(ctx, GetAllContactsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bob", all[0].Name)
	assert.Equal(t, "Ana", all[1].Name)
}

func TestHandleAddContact_DuplicateName(t *testing.T) {
	svc, repo := newFakeService(t, named("Ana"))

	_, err := svc.HandleAddContact(context.Background(), AddContactCommand{Contact: ana()})
	assert.True(t, errors.Is(err, errors.ErrNameAlreadyExists), "got %v", err)
	assert.Zero(t, repo.adds)
}

func TestHandleAddContact_DuplicatesAllowed(t *testing.T) {
	repo := &fakeRepo{book: contact.Book{named("Ana")}}
	cfg := config.DefaultConfig()
	cfg.AllowDuplicateNames = true
	svc := NewService(repo, cfg, logger.Test(t))

	_, err := svc.HandleAddContact(context.Background(), AddContactCommand{Contact: ana()})
	require.NoError(t, err)
	assert.Len(t, repo.book, 2)
}

func TestHandleAddContact_EmptyName(t *testing.T) {
	svc, repo := newFakeService(t)

	for _, name := range []string{"", "   ", "\t"} {
		_, err := svc.HandleAddContact(context.Background(), AddContactCommand{Contact: named(name)})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "name %q: got %v", name, err)
	}
	assert.Zero(t, repo.adds)
}

func TestHandleAddContact_ReadFailure(t *testing.T) {
	svc, repo := newFakeService(t)
	repo.readErr = errors.NewInternal(stderrors.New("disk gone"))

	_, err := svc.HandleAddContact(context.Background(), AddContactCommand{Contact: ana()})
	assert.True(t, errors.Is(err, errors.ErrInternal))
	assert.Zero(t, repo.adds)
}

func TestHandleEditContact(t *testing.T) {
	svc, repo := newFakeService(t, ana(), named("Bob"))
	ctx := context.Background()

	edited := contact.Contact{Name: "Ana B", Details: []contact.Detail{contact.Email{Address: "b@x.com"}}}
	ok, err := svc.HandleEditContact(ctx, EditContactCommand{OldName: "Ana", NewContact: edited})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.updates)

	got, found, err := svc.HandleGetContactByName(ctx, GetContactByNameQuery{Name: "Ana B"})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, edited.Equal(got))
}

func TestHandleEditContact_MissingIsNoOp(t *testing.T) {
	svc, repo := newFakeService(t, ana())

	ok, err := svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Ghost", NewContact: named("Casper")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.updates, "mutator must not be called when nothing changes")
}

func TestHandleEditContact_IdenticalIsNoOp(t *testing.T) {
	svc, repo := newFakeService(t, ana())

	ok, err := svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Ana", NewContact: ana()})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.updates)
}

func TestHandleEditContact_RenameOntoExisting(t *testing.T) {
	svc, repo := newFakeService(t, ana(), named("Bob"))

	_, err := svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Ana", NewContact: named("Bob")})
	assert.True(t, errors.Is(err, errors.ErrNameAlreadyExists), "got %v", err)
	assert.Zero(t, repo.updates)
}

func TestHandleEditContact_KeepNameChangeDetails(t *testing.T) {
	svc, repo := newFakeService(t, ana())

	ok, err := svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Ana", NewContact: named("Ana")})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.updates)
	assert.Empty(t, repo.book[0].Details)
}

func TestHandleEditContact_EmptyName(t *testing.T) {
	svc, _ := newFakeService(t, ana())

	_, err := svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Ana", NewContact: named(" ")})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestHandleDeleteContact(t *testing.T) {
	svc, repo := newFakeService(t, ana(), named("Bob"))
	ctx := context.Background()

	ok, err := svc.HandleDeleteContact(ctx, DeleteContactCommand{Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.deletes)

	_, found, err := svc.HandleGetContactByName(ctx, GetContactByNameQuery{Name: "Ana"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandleDeleteContact_MissingIsNoOp(t *testing.T) {
	svc, repo := newFakeService(t, ana())

	ok, err := svc.HandleDeleteContact(context.Background(), DeleteContactCommand{Name: "ana"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.deletes, "mutator must not be called when nothing changes")
}

func TestHandleGetContactByName_FirstMatch(t *testing.T) {
	first := contact.Contact{Name: "X", Details: []contact.Detail{contact.Email{Address: "1@x.com"}}}
	second := contact.Contact{Name: "X", Details: []contact.Detail{contact.Email{Address: "2@x.com"}}}
	svc, _ := newFakeService(t, first, second)

	got, found, err := svc.HandleGetContactByName(context.Background(), GetContactByNameQuery{Name: "X"})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, first.Equal(got))
}

func TestHandleGetAllContacts_Empty(t *testing.T) {
	svc, _ := newFakeService(t)

	all, err := svc.HandleGetAllContacts(context.Background(), GetAllContactsQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestContactFromInput(t *testing.T) {
	c, err := ContactFromInput("Ana", "1-555-1234", "ana@x.com", "tw:ana_t")
	require.NoError(t, err)
	assert.True(t, ana().Equal(c))

	c, err = ContactFromInput("Bob", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, c.Details)

	_, err = ContactFromInput("Bad", "15551234", "", "")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = ContactFromInput("Bad", "", "", "no-colon")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = ContactFromInput("Bad", "1,2-555-1234", "", "")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestHandleAddEdit_AmbiguousDetailsRejected(t *testing.T) {
	bad := []contact.Detail{
		contact.Telephone{CountryCode: "1,2", CityCode: "555", Number: "1234"},
		contact.Telephone{CountryCode: "1", CityCode: "5,55", Number: "1234"},
		contact.SocialMedia{Platform: "a:b", Handle: "ana"},
	}

	for _, d := range bad {
		svc, repo := newFakeService(t, named("Bob"))
		c := contact.Contact{Name: "Ana", Details: []contact.Detail{d}}

		_, err := svc.HandleAddContact(context.Background(), AddContactCommand{Contact: c})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "add %#v: got %v", d, err)

		_, err = svc.HandleEditContact(context.Background(), EditContactCommand{OldName: "Bob", NewContact: c})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "edit %#v: got %v", d, err)

		assert.Zero(t, repo.adds)
		assert.Zero(t, repo.updates)
	}
}

func TestHandleAddContact_SQLiteRoundTripKeepsFields(t *testing.T) {
	svc := newSQLiteService(t, nil)
	ctx := context.Background()

	_, err := svc.HandleAddContact(ctx, AddContactCommand{Contact: contact.Contact{
		Name:    "Ana",
		Details: []contact.Detail{contact.Telephone{CountryCode: "1,2", CityCode: "555", Number: "1234"}},
	}})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)

	want := contact.Contact{
		Name:    "Ana",
		Details: []contact.Detail{contact.Telephone{CountryCode: "12", CityCode: "555", Number: "12,34"}},
	}
	_, err = svc.HandleAddContact(ctx, AddContactCommand{Contact: want})
	require.NoError(t, err)

	got, found, err := svc.HandleGetContactByName(ctx, GetContactByNameQuery{Name: "Ana"})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, want.Equal(got), "got %v", got)
}
