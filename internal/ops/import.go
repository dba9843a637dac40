package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // abort before writing on any collision or bad line
	ImportModeSkip    ImportMode = "skip"    // keep the existing contact
	ImportModeReplace ImportMode = "replace" // overwrite the existing contact
)

// Import error codes reported per line.
const (
	ImportCodeParse     = "PARSE_ERROR"
	ImportCodeInvalid   = "INVALID_RECORD"
	ImportCodeCollision = "NAME_COLLISION"
	ImportCodeRead      = "READ_ERROR"
)

// maxImportLine bounds a single JSONL line.
const maxImportLine = 1 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Replaced int           `json:"replaced"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes one line that was not imported.
type ImportError struct {
	Line    int    `json:"line"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type importRecord struct {
	line    int
	contact contact.Contact
}

// Import reads a JSONL export and adds its contacts. A name already in the
// book (or earlier in the same file) is a collision, handled per Mode.
// Collisions are detected whether or not duplicate names are allowed.
// In error mode any rejected line fails the call with INVALID_REQUEST whose
// "errors" detail lists every rejected line.
func (s *Service) Import(ctx context.Context, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeSkip && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, skip, replace")
	}
	if err := ValidatePath(input.Path, PathCheckRead, s.cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseExportFile(file)

	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: []ImportError{}}

	if input.Mode == ImportModeError {
		out.Errors = append(out.Errors, parseErrors...)
		out.Errors = append(out.Errors, findCollisions(records, book)...)
		if len(out.Errors) > 0 {
			s.lggr.Infow("import aborted", "path", input.Path, "rejected", len(out.Errors))
			abort := errors.NewInvalidRequest(fmt.Sprintf(
				"import aborted: %d line(s) rejected, nothing was imported", len(out.Errors)))
			abort.Details = map[string]any{"errors": out.Errors}
			return nil, abort
		}
		for _, r := range records {
			if err := ctx.Err(); err != nil {
				return nil, errors.NewCancelled("import")
			}
			if _, err := s.repo.AddContact(ctx, r.contact); err != nil {
				return nil, err
			}
			out.Imported++
		}
		s.logImport(input, out)
		return out, nil
	}

	out.Errors = append(out.Errors, parseErrors...)
	out.Skipped += len(parseErrors)

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled("import")
		}

		if _, exists := contact.Search(r.contact.Name, book); !exists {
			if _, err := s.repo.AddContact(ctx, r.contact); err != nil {
				return nil, err
			}
			book = contact.Add(r.contact, book)
			out.Imported++
			continue
		}

		if input.Mode == ImportModeSkip {
			out.Skipped++
			continue
		}

		if _, err := s.repo.UpdateContact(ctx, r.contact.Name, r.contact); err != nil {
			return nil, err
		}
		book = contact.Edit(r.contact.Name, r.contact, book)
		out.Replaced++
	}

	s.logImport(input, out)
	return out, nil
}

func (s *Service) logImport(input ImportInput, out *ImportOutput) {
	s.lggr.Infow("contacts imported",
		"path", input.Path, "mode", input.Mode,
		"imported", out.Imported, "skipped", out.Skipped, "replaced", out.Replaced)
}

// findCollisions reports every record whose name is already in the book or
// appears earlier in the file.
func findCollisions(records []importRecord, book contact.Book) []ImportError {
	var collisions []ImportError
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		name := r.contact.Name
		if _, exists := contact.Search(name, book); exists || seen[name] {
			collisions = append(collisions, ImportError{
				Line:    r.line,
				Name:    name,
				Code:    ImportCodeCollision,
				Message: fmt.Sprintf("contact with name %q already exists", name),
			})
		}
		seen[name] = true
	}
	return collisions
}

// parseExportFile decodes contact lines, skipping the header and blank lines.
func parseExportFile(r io.Reader) ([]importRecord, []ImportError) {
	var records []importRecord
	var parseErrors []ImportError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record contact.ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    ImportCodeParse,
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if record.RoloExport {
			continue
		}

		if strings.TrimSpace(record.Name) == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    ImportCodeInvalid,
				Message: "missing name field",
			})
			continue
		}

		c, err := record.ToContact()
		if err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Name:    record.Name,
				Code:    ImportCodeInvalid,
				Message: err.Error(),
			})
			continue
		}

		records = append(records, importRecord{line: lineNum, contact: c})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    ImportCodeRead,
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}
