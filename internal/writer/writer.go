package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// reportMode is the permission of finished reports. os.CreateTemp opens
// files as 0600.
const reportMode os.FileMode = 0o644

// Header is the fixed column order of every report.
var Header = []string{"Date", "Description", "Amount", "Balance"}

// Writer renders normalized transactions into a report.
type Writer interface {
	Write(out io.Writer, txns []models.NormalizedTransaction) error
	// Ext is the file extension the output is written with, e.g. ".xlsx".
	Ext() string
}

// ForPath picks the writer matching the output path's extension.
// Anything other than .csv gets a spreadsheet.
func ForPath(path string) Writer {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return &CSVWriter{}
	}
	return NewXLSXWriter()
}

// WriteFile writes txns to path through a temporary file in the same
// directory, renamed into place once complete. On failure nothing is
// left at path.
func WriteFile(path string, w Writer, txns []models.NormalizedTransaction) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = w.Write(tmp, txns); err != nil {
		return err
	}
	if err = tmp.Chmod(reportMode); err != nil {
		return fmt.Errorf("failed to set mode on output file %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file %q: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place at %q: %w", path, err)
	}
	return nil
}
