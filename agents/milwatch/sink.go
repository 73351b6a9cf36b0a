package milwatch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"milwatch/internal/models"
)

// CSVSink is the append-only event log between the poller and the event
// store. The header is written once, when the file is first created.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Append writes the rows to the end of the sink file.
func (s *CSVSink) Append(rows []models.EventRecord) error {
	if len(rows) == 0 {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create sink directory: %w", err)
		}
	}

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CSV sink %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(models.EventColumns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, rec := range rows {
		if err := w.Write(rec.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV sink: %w", err)
	}
	return nil
}
