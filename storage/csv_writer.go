package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"estate-mail-scraper/models"
)

// CSVWriter dumps raw candidates to a CSV file before validation touches
// them, so a run can be audited against what the extractors actually saw.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"source", "name", "link", "area", "price", "received_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteCandidates appends one row per candidate. Unset area and price
// fields become empty cells.
func (c *CSVWriter) WriteCandidates(candidates []*models.Candidate) error {
	for _, cand := range candidates {
		area, price := "", ""
		if cand.HasArea {
			area = strconv.FormatFloat(cand.Area, 'f', -1, 64)
		}
		if cand.HasPrice {
			price = strconv.FormatFloat(cand.Price, 'f', 2, 64)
		}
		row := []string{
			cand.Source,
			cand.Name,
			cand.Link,
			area,
			price,
			cand.ReceivedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
