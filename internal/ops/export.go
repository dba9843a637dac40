package ops

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
)

// ExportSchemaVersion is written to the header line of every export.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.rolo/exports/rolo-export-<ULID>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	ExportID   string `json:"export_id"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes every contact to a JSONL file: a header line followed by one
// line per contact. The file is written to a temp file and renamed into place,
// so an existing file at Path survives a failed export.
func (s *Service) Export(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportID, err := newULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, fmt.Sprintf("rolo-export-%s.jsonl", exportID))
	}
	// Default paths go through the same check as caller-supplied ones
	if err := ValidatePath(exportPath, PathCheckWrite, s.cfg); err != nil {
		return nil, err
	}

	book, err := s.repo.GetAllContacts(ctx)
	if err != nil {
		return nil, err
	}

	// The parent is an allowed directory (or anything, with allow_unsafe_paths)
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tempPath := exportPath + "." + exportID + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	enc := json.NewEncoder(file)
	header := contact.ExportRecord{
		RoloExport:    true,
		SchemaVersion: ExportSchemaVersion,
		ExportID:      exportID,
		ExportedAt:    now.Unix(),
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	for _, c := range book {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}
		if err := enc.Encode(contact.ToExportRecord(c)); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	success = true

	s.lggr.Infow("contacts exported", "path", exportPath, "count", len(book), "export_id", exportID)
	return &ExportOutput{
		Path:       exportPath,
		ExportID:   exportID,
		Count:      len(book),
		ExportedAt: now.Unix(),
	}, nil
}

func newULID(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
