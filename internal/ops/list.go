package ops

import (
	"context"

	"github.com/hpungsan/rolo/internal/contact"
)

// HandleGetAllContacts returns every contact in storage order.
func (s *Service) HandleGetAllContacts(ctx context.Context, _ GetAllContactsQuery) ([]contact.Contact, error) {
	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return nil, err
	}
	return []contact.Contact(book), nil
}
