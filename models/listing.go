package models

import "time"

// Candidate holds a raw listing pulled out of one provider's email markup.
// Area and price may be unset (the markup did not yield them); the validator
// decides whether the candidate survives.
type Candidate struct {
	Source     string
	Name       string
	Link       string
	Area       float64
	HasArea    bool
	Price      float64
	HasPrice   bool
	ReceivedAt time.Time
}

// Listing is the validated, enriched record that gets scored and persisted.
// The link is the identity of a listing across runs and is never rewritten.
type Listing struct {
	Source       string    `json:"source"`
	Name         string    `json:"name"`
	Link         string    `json:"link"`
	Area         float64   `json:"area"`
	Price        float64   `json:"price"`
	PricePerArea float64   `json:"price_per_area"`
	Location     string    `json:"location"`
	ReceivedAt   time.Time `json:"received_at"`
	ExtractedAt  time.Time `json:"extracted_at"`
	Score        float64   `json:"score"`
}

// RejectReason explains why a candidate did not become a listing.
// Rejections are expected control flow, not errors.
type RejectReason int

const (
	Accepted RejectReason = iota
	RejectMissingField
	RejectBlockedKeyword
	RejectAreaOutOfRange
	RejectInvalidPrice
	RejectPriceTooLow
	RejectTooOld
	RejectInvalidTimestamp
)

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectMissingField:
		return "missing field"
	case RejectBlockedKeyword:
		return "blocked keyword"
	case RejectAreaOutOfRange:
		return "area out of range"
	case RejectInvalidPrice:
		return "invalid price"
	case RejectPriceTooLow:
		return "price per m² too low"
	case RejectTooOld:
		return "too old"
	case RejectInvalidTimestamp:
		return "invalid timestamp"
	}
	return "unknown"
}

// Report holds the summary computed over the final ranked dataset.
type Report struct {
	TotalListings      int
	BySource           map[string]int
	MinPricePerArea    float64
	MaxPricePerArea    float64
	AvgPricePerArea    float64
	BestDeal           *Listing
	TopDeals           []*Listing
	ListingsByLocation map[string]int
}
