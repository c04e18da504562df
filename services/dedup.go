package services

import (
	"strings"

	"estate-mail-scraper/models"
	"estate-mail-scraper/textutil"
	"estate-mail-scraper/utils"
)

// Deduper screens listings against everything accepted so far: first an
// exact link match, then title similarity. The similarity pass compares
// each new listing against the whole working set, so the run is O(n²) in
// accepted listings — fine for a personal feed of a few hundred records,
// not for a large corpus.
type Deduper struct {
	minSequence int
	logger      *utils.Logger
	seenLinks   map[string]struct{}
	accepted    []*models.Listing
}

func NewDeduper(minSequence int, logger *utils.Logger) *Deduper {
	return &Deduper{
		minSequence: minSequence,
		logger:      logger,
		seenLinks:   make(map[string]struct{}),
	}
}

// Seed preloads previously persisted listings into the comparison set
// (accumulate mode).
func (d *Deduper) Seed(listings []*models.Listing) {
	for _, l := range listings {
		d.Accept(l)
	}
}

// IsDuplicate reports whether the listing collides with the known set.
// The cheap link check runs first; only new links pay for the name scan.
func (d *Deduper) IsDuplicate(l *models.Listing) bool {
	if _, dup := d.seenLinks[l.Link]; dup {
		return true
	}
	for _, known := range d.accepted {
		if NamesSimilar(l.Name, known.Name, d.minSequence) {
			d.logger.Debug("[dedup] %q reads like %q", l.Name, known.Name)
			return true
		}
	}
	return false
}

// Accept records the listing as part of the comparison set.
func (d *Deduper) Accept(l *models.Listing) {
	d.seenLinks[l.Link] = struct{}{}
	d.accepted = append(d.accepted, l)
}

// Listings returns the full accepted set in insertion order.
func (d *Deduper) Listings() []*models.Listing {
	return d.accepted
}

// NamesSimilar reports whether two titles share at least one contiguous run
// of minSequence identical words. Titles with fewer words than the sequence
// length are too short to compare reliably and are never considered similar.
// The check is symmetric.
func NamesSimilar(a, b string, minSequence int) bool {
	if minSequence <= 0 {
		return false
	}
	wordsA := textutil.Tokenize(a)
	wordsB := textutil.Tokenize(b)
	if len(wordsA) < minSequence || len(wordsB) < minSequence {
		return false
	}

	grams := make(map[string]struct{}, len(wordsA))
	for i := 0; i+minSequence <= len(wordsA); i++ {
		grams[strings.Join(wordsA[i:i+minSequence], " ")] = struct{}{}
	}
	for i := 0; i+minSequence <= len(wordsB); i++ {
		if _, ok := grams[strings.Join(wordsB[i:i+minSequence], " ")]; ok {
			return true
		}
	}
	return false
}
