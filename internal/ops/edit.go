package ops

import (
	"context"

	"github.com/hpungsan/rolo/internal/contact"
)

// HandleEditContact replaces the contact named cmd.OldName. It returns false,
// without touching storage, when the edit leaves the book unchanged.
func (s *Service) HandleEditContact(ctx context.Context, cmd EditContactCommand) (bool, error) {
	if err := validateContact(cmd.NewContact); err != nil {
		return false, err
	}

	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return false, err
	}

	if contact.Equal(contact.Edit(cmd.OldName, cmd.NewContact, book), book) {
		return false, nil
	}
	if cmd.NewContact.Name != cmd.OldName {
		if err := s.checkNameFree(cmd.NewContact.Name, book); err != nil {
			return false, err
		}
	}

	return s.repo.UpdateContact(ctx, cmd.OldName, cmd.NewContact)
}
