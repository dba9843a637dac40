package contact

import "strings"

// Book is a full, ordered snapshot of every contact.
// Functions in this file never modify their input.
type Book []Contact

// Add returns a new book with c appended. Duplicate names are not checked.
func Add(c Contact, b Book) Book {
	out := make(Book, 0, len(b)+1)
	out = append(out, b...)
	return append(out, c)
}

// Search returns the first contact whose name equals name exactly.
func Search(name string, b Book) (Contact, bool) {
	for _, c := range b {
		if c.Name == name {
			return c, true
		}
	}
	return Contact{}, false
}

// Edit returns a new book where every contact named oldName is replaced by c.
// If nothing matches the result is Equal to b.
func Edit(oldName string, c Contact, b Book) Book {
	out := make(Book, len(b))
	for i, existing := range b {
		if existing.Name == oldName {
			out[i] = c
			continue
		}
		out[i] = existing
	}
	return out
}

// Delete returns a new book without any contact named name.
// If nothing matches the result is Equal to b.
func Delete(name string, b Book) Book {
	out := make(Book, 0, len(b))
	for _, c := range b {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}

// Equal reports structural equality over the ordered contacts and their details.
func Equal(a, b Book) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Render returns every contact's text form separated by newlines.
func Render(b Book) string {
	if len(b) == 0 {
		return "No contacts available."
	}
	parts := make([]string, 0, len(b))
	for _, c := range b {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n")
}
