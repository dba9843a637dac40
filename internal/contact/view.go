package contact

// DetailView is the JSON shape of a detail: its storage tag and value plus
// the display line.
type DetailView struct {
	Type    Kind   `json:"type"`
	Value   string `json:"value"`
	Display string `json:"display"`
}

// View is the JSON shape of a contact.
type View struct {
	Name    string       `json:"name"`
	Details []DetailView `json:"details"`
}

// ToView converts a contact to its JSON shape.
func ToView(c Contact) View {
	v := View{Name: c.Name, Details: make([]DetailView, 0, len(c.Details))}
	for _, d := range c.Details {
		kind, value := Encode(d)
		v.Details = append(v.Details, DetailView{Type: kind, Value: value, Display: d.String()})
	}
	return v
}

// ToViews converts contacts to their JSON shape, never returning nil.
func ToViews(cs []Contact) []View {
	views := make([]View, 0, len(cs))
	for _, c := range cs {
		views = append(views, ToView(c))
	}
	return views
}
