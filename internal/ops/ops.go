// Package ops is the application layer: command and query values handled by
// a Service that reads the whole book, applies a pure contact function, and
// persists at most one mutation.
package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/logger"
)

// Repository is the persistence the Service needs. *store.Store implements it.
type Repository interface {
	AddContact(ctx context.Context, c contact.Contact) (contact.Contact, error)
	GetAllContacts(ctx context.Context) (contact.Book, error)
	UpdateContact(ctx context.Context, oldName string, c contact.Contact) (bool, error)
	DeleteContact(ctx context.Context, name string) (bool, error)
}

// Service handles contact commands and queries.
type Service struct {
	repo Repository
	cfg  *config.Config
	lggr logger.Logger
}

// NewService returns a Service over repo. A nil cfg means defaults.
func NewService(repo Repository, cfg *config.Config, lggr logger.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Service{repo: repo, cfg: cfg, lggr: lggr.Named("ops")}
}

// validateName rejects names that are empty after trimming whitespace.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidRequest("name must not be empty")
	}
	return nil
}

// validateContact checks the name and that every detail can be stored and
// read back unchanged.
func validateContact(c contact.Contact) error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if err := contact.Validate(c); err != nil {
		return errors.NewInvalidRequest(err.Error())
	}
	return nil
}

// checkNameFree enforces name uniqueness unless duplicates are allowed.
func (s *Service) checkNameFree(name string, book contact.Book) error {
	if s.cfg.AllowDuplicateNames {
		return nil
	}
	if _, ok := contact.Search(name, book); ok {
		s.lggr.Infow("rejected duplicate name", "name", name)
		return errors.NewNameAlreadyExists(name)
	}
	return nil
}

// ContactFromInput builds a contact from raw surface input: a name and the
// optional "cc-city-number", email and "platform:handle" strings.
func ContactFromInput(name, telephone, email, socialMedia string) (contact.Contact, error) {
	details, err := contact.DetailsFromInput(telephone, email, socialMedia)
	if err != nil {
		return contact.Contact{}, errors.NewInvalidRequest(err.Error())
	}
	return contact.Contact{Name: name, Details: details}, nil
}
