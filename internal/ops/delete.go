package ops

import (
	"context"

	"github.com/hpungsan/rolo/internal/contact"
)

// HandleDeleteContact removes the contact named cmd.Name. It returns false,
// without touching storage, when no contact has that name.
func (s *Service) HandleDeleteContact(ctx context.Context, cmd DeleteContactCommand) (bool, error) {
	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return false, err
	}

	if contact.Equal(contact.Delete(cmd.Name, book), book) {
		return false, nil
	}
	return s.repo.DeleteContact(ctx, cmd.Name)
}
