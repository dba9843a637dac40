package contact

// ExportRecord represents one line of a JSONL export file.
// The header line sets RoloExport and the header fields only.
type ExportRecord struct {
	// Header detection field - true only for header line
	RoloExport bool `json:"_rolo_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportID      string `json:"export_id,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Contact fields
	Name    string         `json:"name,omitempty"`
	Details []ExportDetail `json:"details,omitempty"`
}

// ExportDetail is a detail in its tagged storage encoding.
type ExportDetail struct {
	Type  Kind   `json:"type"`
	Value string `json:"value"`
}

// ToExportRecord converts a contact to its export form.
func ToExportRecord(c Contact) *ExportRecord {
	r := &ExportRecord{Name: c.Name}
	for _, d := range c.Details {
		kind, value := Encode(d)
		r.Details = append(r.Details, ExportDetail{Type: kind, Value: value})
	}
	return r
}

// ToContact decodes an export record back into a contact.
func (r *ExportRecord) ToContact() (Contact, error) {
	c := Contact{Name: r.Name}
	for _, ed := range r.Details {
		d, err := Decode(ed.Type, ed.Value)
		if err != nil {
			return Contact{}, err
		}
		c.Details = append(c.Details, d)
	}
	return c, nil
}
