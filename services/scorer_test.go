package services

import (
	"testing"
	"time"

	"estate-mail-scraper/models"
)

func scorableBatch(now time.Time) []*models.Listing {
	return []*models.Listing{
		{Link: "a", Name: "A", PricePerArea: 2000, ReceivedAt: now.Add(-72 * time.Hour)},
		{Link: "b", Name: "B", PricePerArea: 3000, ReceivedAt: now.Add(-48 * time.Hour)},
		{Link: "c", Name: "C", PricePerArea: 2500, ReceivedAt: now.Add(-24 * time.Hour)},
		{Link: "d", Name: "D", PricePerArea: 1800, ReceivedAt: now},
	}
}

func TestScoreBoundsAndOrdering(t *testing.T) {
	s := NewScorer(testConfig(), newTestLogger())
	ranked := s.ScoreAndRank(scorableBatch(time.Now().UTC()))

	for i, l := range ranked {
		if l.Score < 0 || l.Score > 1 {
			t.Errorf("score out of [0,1]: %v (%s)", l.Score, l.Link)
		}
		if i > 0 && ranked[i-1].Score < l.Score {
			t.Errorf("ordering not non-increasing at %d: %v < %v", i, ranked[i-1].Score, l.Score)
		}
	}

	// d is both the cheapest per m² and the newest: it must win outright.
	if ranked[0].Link != "d" {
		t.Errorf("expected 'd' first, got %q (score %v)", ranked[0].Link, ranked[0].Score)
	}
	if ranked[0].Score != 1 {
		t.Errorf("best-on-both-dimensions listing should score 1, got %v", ranked[0].Score)
	}
}

func TestScoreDeterminism(t *testing.T) {
	s := NewScorer(testConfig(), newTestLogger())
	now := time.Now().UTC()

	first := s.ScoreAndRank(scorableBatch(now))
	second := s.ScoreAndRank(scorableBatch(now))

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Link != second[i].Link || first[i].Score != second[i].Score {
			t.Errorf("run mismatch at %d: (%s, %v) vs (%s, %v)",
				i, first[i].Link, first[i].Score, second[i].Link, second[i].Score)
		}
	}
}

// When every listing shares the same price per m² and the same timestamp,
// both dimensions are constant and contribute their favourable extreme:
// every listing scores exactly 1.
func TestScoreConstantDimensions(t *testing.T) {
	s := NewScorer(testConfig(), newTestLogger())
	now := time.Now().UTC()

	batch := []*models.Listing{
		{Link: "a", PricePerArea: 2000, ReceivedAt: now},
		{Link: "b", PricePerArea: 2000, ReceivedAt: now},
	}

	for _, l := range s.ScoreAndRank(batch) {
		if l.Score != 1 {
			t.Errorf("constant-dimension batch: %s scored %v, want 1", l.Link, l.Score)
		}
	}
}

func TestScoreUnscorableGetsZero(t *testing.T) {
	s := NewScorer(testConfig(), newTestLogger())
	now := time.Now().UTC()

	batch := []*models.Listing{
		{Link: "ok", PricePerArea: 2000, ReceivedAt: now},
		{Link: "no-price", PricePerArea: 0, ReceivedAt: now, Score: 0.9},
		{Link: "no-time", PricePerArea: 2500},
	}

	ranked := s.ScoreAndRank(batch)
	for _, l := range ranked {
		if l.Link != "ok" && l.Score != 0 {
			t.Errorf("unscorable %s kept score %v, want 0", l.Link, l.Score)
		}
	}
	if ranked[0].Link != "ok" {
		t.Errorf("scorable listing should rank first, got %q", ranked[0].Link)
	}
}

func TestScoreRounding(t *testing.T) {
	s := NewScorer(testConfig(), newTestLogger())
	now := time.Now().UTC()

	batch := []*models.Listing{
		{Link: "a", PricePerArea: 2000, ReceivedAt: now.Add(-100 * time.Hour)},
		{Link: "b", PricePerArea: 2300, ReceivedAt: now.Add(-33 * time.Hour)},
		{Link: "c", PricePerArea: 2900, ReceivedAt: now},
	}

	for _, l := range s.ScoreAndRank(batch) {
		scaled := l.Score * 10000
		if scaled != float64(int(scaled+0.5)) && scaled != float64(int(scaled)) {
			t.Errorf("score %v of %s not rounded to 4 decimals", l.Score, l.Link)
		}
	}
}
