package ops

import "github.com/hpungsan/rolo/internal/contact"

// AddContactCommand adds a contact.
type AddContactCommand struct {
	Contact contact.Contact
}

// EditContactCommand replaces the contact named OldName with NewContact.
type EditContactCommand struct {
	OldName    string
	NewContact contact.Contact
}

// DeleteContactCommand deletes the contact named Name.
type DeleteContactCommand struct {
	Name string
}

// GetAllContactsQuery lists every contact.
type GetAllContactsQuery struct{}

// GetContactByNameQuery looks up one contact by exact name.
type GetContactByNameQuery struct {
	Name string
}
