package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate-mail-scraper/models"
)

func TestCSVWriterRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	received := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	candidates := []*models.Candidate{
		{
			Source: "immobiliare.it", Name: "Trilocale, Monza",
			Link: "https://clicks.immobiliare.it/abc",
			Area: 80, HasArea: true, Price: 160000, HasPrice: true,
			ReceivedAt: received,
		},
		{
			Source: "casa.it", Name: "Bilocale, Milano",
			Link:       "https://www.casa.it/immobili/xyz",
			ReceivedAt: received,
		},
	}
	if err := w.WriteCandidates(candidates); err != nil {
		t.Fatalf("WriteCandidates: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "source" || rows[0][5] != "received_at" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != "80" || rows[1][4] != "160000.00" {
		t.Errorf("set fields row: %v", rows[1])
	}
	// Candidate with no extracted area or price keeps those cells empty.
	if rows[2][3] != "" || rows[2][4] != "" {
		t.Errorf("unset fields row: %v", rows[2])
	}
	if rows[2][5] != "2026-08-30T10:00:00Z" {
		t.Errorf("received_at cell: %q", rows[2][5])
	}
}
