package ops

import (
	"context"

	"github.com/hpungsan/rolo/internal/contact"
)

// HandleAddContact appends the contact to the book and persists it.
// The returned contact is the one from the command.
func (s *Service) HandleAddContact(ctx context.Context, cmd AddContactCommand) (contact.Contact, error) {
	if err := validateContact(cmd.Contact); err != nil {
		return contact.Contact{}, err
	}

	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	if err := s.checkNameFree(cmd.Contact.Name, book); err != nil {
		return contact.Contact{}, err
	}

	next := contact.Add(cmd.Contact, book)
	if _, err := s.repo.AddContact(ctx, next[len(next)-1]); err != nil {
		return contact.Contact{}, err
	}
	return cmd.Contact, nil
}
