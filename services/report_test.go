package services

import (
	"testing"
	"time"
	"unicode/utf8"

	"estate-mail-scraper/models"
)

func reportBatch() []*models.Listing {
	now := time.Now().UTC()
	return []*models.Listing{
		{Source: "immobiliare.it", Name: "A", Link: "a", Price: 160000, Area: 80, PricePerArea: 2000, Location: "Monza", ReceivedAt: now, Score: 0.9},
		{Source: "immobiliare.it", Name: "B", Link: "b", Price: 200000, Area: 80, PricePerArea: 2500, Location: "Monza", ReceivedAt: now, Score: 0.7},
		{Source: "casa.it", Name: "C", Link: "c", Price: 180000, Area: 60, PricePerArea: 3000, Location: "Milano", ReceivedAt: now, Score: 0.5},
		{Source: "idealista.it", Name: "D", Link: "d", Location: "Unknown", ReceivedAt: now, Score: 0.1},
	}
}

func TestGenerateReport(t *testing.T) {
	r := NewReportService(newTestLogger()).Generate(reportBatch())

	if r.TotalListings != 4 {
		t.Errorf("TotalListings = %d, want 4", r.TotalListings)
	}
	if r.BySource["immobiliare.it"] != 2 || r.BySource["casa.it"] != 1 || r.BySource["idealista.it"] != 1 {
		t.Errorf("BySource = %v", r.BySource)
	}

	// Unpriced listing D is excluded from the price stats.
	if r.MinPricePerArea != 2000 || r.MaxPricePerArea != 3000 {
		t.Errorf("price range = %v .. %v, want 2000 .. 3000", r.MinPricePerArea, r.MaxPricePerArea)
	}
	if r.AvgPricePerArea != 2500 {
		t.Errorf("AvgPricePerArea = %v, want 2500", r.AvgPricePerArea)
	}
	if r.BestDeal == nil || r.BestDeal.Link != "a" {
		t.Errorf("BestDeal = %+v, want listing a", r.BestDeal)
	}

	if len(r.TopDeals) != 4 {
		t.Fatalf("TopDeals has %d entries, want 4", len(r.TopDeals))
	}
	if r.TopDeals[0].Link != "a" || r.TopDeals[3].Link != "d" {
		t.Errorf("TopDeals not ordered by score: first %s, last %s", r.TopDeals[0].Link, r.TopDeals[3].Link)
	}

	// Unknown locations stay out of the location counts.
	if r.ListingsByLocation["Monza"] != 2 || r.ListingsByLocation["Milano"] != 1 {
		t.Errorf("ListingsByLocation = %v", r.ListingsByLocation)
	}
	if _, ok := r.ListingsByLocation["Unknown"]; ok {
		t.Error("ListingsByLocation must not include Unknown")
	}
}

func TestGenerateReportTopDealsCapped(t *testing.T) {
	now := time.Now().UTC()
	var batch []*models.Listing
	for i := 0; i < 8; i++ {
		batch = append(batch, &models.Listing{
			Source: "casa.it", Name: "L", Link: string(rune('a' + i)),
			PricePerArea: 2000, ReceivedAt: now, Score: float64(i) / 10,
		})
	}

	r := NewReportService(newTestLogger()).Generate(batch)
	if len(r.TopDeals) != 5 {
		t.Fatalf("TopDeals has %d entries, want 5", len(r.TopDeals))
	}
	if r.TopDeals[0].Score != 0.7 {
		t.Errorf("top deal score = %v, want 0.7", r.TopDeals[0].Score)
	}
}

func TestTruncateMultibyte(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 10, "abcdefg..."},
		// The cut lands between multibyte runes, never inside one.
		{"Bilocale 75 m² più cantina, Cinisello Balsamo", 20, "Bilocale 75 m² pi..."},
		{"Trilocale però caro però bello", 17, "Trilocale però..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
		}
	}
}

func TestGenerateReportEmpty(t *testing.T) {
	r := NewReportService(newTestLogger()).Generate(nil)
	if r.TotalListings != 0 || len(r.TopDeals) != 0 || r.BestDeal != nil {
		t.Errorf("empty batch produced non-empty report: %+v", r)
	}
}
