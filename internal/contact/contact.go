package contact

import (
	"fmt"
	"strings"
)

// Kind is the storage tag of a contact detail variant.
type Kind string

const (
	KindTelephone   Kind = "telephone"
	KindEmail       Kind = "email"
	KindSocialMedia Kind = "social_media"
)

// Detail is one typed piece of reachability information attached to a contact.
// The set of implementations is closed: only Telephone, Email and SocialMedia
// satisfy it.
type Detail interface {
	// Kind returns the storage tag for the variant
	Kind() Kind

	// String returns the display form, e.g. "Phone: 15551234"
	String() string

	detail()
}

// Telephone is a phone number split into its dialing parts.
type Telephone struct {
	CountryCode string
	CityCode    string
	Number      string
}

func (Telephone) Kind() Kind { return KindTelephone }
func (Telephone) detail()    {}

func (t Telephone) String() string {
	return fmt.Sprintf("Phone: %s%s%s", t.CountryCode, t.CityCode, t.Number)
}

// Email is an email address.
type Email struct {
	Address string
}

func (Email) Kind() Kind { return KindEmail }
func (Email) detail()    {}

func (e Email) String() string {
	return "Email: " + e.Address
}

// SocialMedia is a handle on a named platform.
type SocialMedia struct {
	Platform string
	Handle   string
}

func (SocialMedia) Kind() Kind { return KindSocialMedia }
func (SocialMedia) detail()    {}

func (s SocialMedia) String() string {
	return s.Platform + ": " + s.Handle
}

// Contact is a named entity with zero or more details.
// Name is the identity key within a Book.
type Contact struct {
	Name    string
	Details []Detail
}

// String renders the name followed by one detail per line.
func (c Contact) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, d := range c.Details {
		b.WriteByte('\n')
		b.WriteString(d.String())
	}
	return b.String()
}

// DetailLines returns the display form of each detail in order.
func (c Contact) DetailLines() []string {
	lines := make([]string, 0, len(c.Details))
	for _, d := range c.Details {
		lines = append(lines, d.String())
	}
	return lines
}

// Equal reports whether two contacts have the same name and the same
// details in the same order.
func (c Contact) Equal(other Contact) bool {
	if c.Name != other.Name || len(c.Details) != len(other.Details) {
		return false
	}
	for i := range c.Details {
		// Every variant is a comparable struct, so interface equality
		// compares dynamic type and field values.
		if c.Details[i] != other.Details[i] {
			return false
		}
	}
	return true
}
