package storage

import "estate-mail-scraper/models"

// ListingStore is the durable home of the listing set. Save replaces the
// whole stored set; Load returns whatever the previous run left behind.
type ListingStore interface {
	Load() ([]*models.Listing, error)
	Save(listings []*models.Listing) error
	Close() error
}

// CandidateWriter persists raw, unvalidated candidates for auditing what
// the extractors actually saw.
type CandidateWriter interface {
	WriteCandidates(candidates []*models.Candidate) error
	Close() error
}
