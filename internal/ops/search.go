package ops

import (
	"context"

	"github.com/hpungsan/rolo/internal/contact"
)

// HandleGetContactByName returns the first contact whose name matches exactly.
func (s *Service) HandleGetContactByName(ctx context.Context, q GetContactByNameQuery) (contact.Contact, bool, error) {
	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return contact.Contact{}, false, err
	}
	c, ok := contact.Search(q.Name, book)
	return c, ok, nil
}
