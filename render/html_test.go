package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"estate-mail-scraper/models"
)

func rankedSet(n int) []*models.Listing {
	received := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	var listings []*models.Listing
	for i := 0; i < n; i++ {
		listings = append(listings, &models.Listing{
			Source:       "immobiliare.it",
			Name:         "Trilocale " + string(rune('A'+i)) + ", Monza",
			Link:         "https://clicks.immobiliare.it/" + string(rune('a'+i)),
			Area:         80,
			Price:        160000,
			PricePerArea: 2000,
			Location:     "Monza",
			ReceivedAt:   received,
			Score:        1 - float64(i)*0.1,
		})
	}
	return listings
}

func TestPageWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "index.html")
	page := NewPage(path)

	generatedAt := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	if err := page.Write(rankedSet(3), generatedAt); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"2026-09-01 12:30",
		"Trilocale A, Monza",
		"https://clicks.immobiliare.it/a",
		"€160000",
		"€2000",
		"2026-08-30",
		"Monza",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Score renders as a 0–100 percentage.
	if !strings.Contains(html, ">100<") {
		t.Errorf("top score not rendered as 100")
	}
}

func TestPageTopSectionCapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	page := NewPage(path)

	if err := page.Write(rankedSet(8), time.Now().UTC()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)

	// 5 highlighted top rows, 8 rows in the full table.
	if got := strings.Count(html, `class="highlight"`); got != 5 {
		t.Errorf("top section has %d rows, want 5", got)
	}
	if got := strings.Count(html, "clicks.immobiliare.it"); got != 5+8 {
		t.Errorf("total link occurrences = %d, want 13", got)
	}
}

func TestPageWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := NewPage(path).Write(nil, time.Now().UTC()); err != nil {
		t.Fatalf("Write on empty set: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("page file not written: %v", err)
	}
}
