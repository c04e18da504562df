package services

import (
	"regexp"
	"strings"
	"time"

	"estate-mail-scraper/config"
	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

var (
	provinceRe = regexp.MustCompile(`\(\w{2}\)$`)
	capRe      = regexp.MustCompile(`^\d{5}\s*`)
)

// Validator applies the business rules that decide whether a raw candidate
// becomes a listing, and derives the computed fields for the ones that do.
type Validator struct {
	cfg    *config.Config
	logger *utils.Logger
	now    func() time.Time
}

func NewValidator(cfg *config.Config, logger *utils.Logger) *Validator {
	return &Validator{cfg: cfg, logger: logger, now: time.Now}
}

// Validate runs the rules in order and returns the enriched listing, or the
// first failing rule's reason. Rejection is expected control flow: the
// caller logs the reason and moves on.
func (v *Validator) Validate(c *models.Candidate) (*models.Listing, models.RejectReason) {
	if c.Name == "" || !c.HasArea || !c.HasPrice {
		return nil, models.RejectMissingField
	}

	nameLower := strings.ToLower(c.Name)
	for _, kw := range v.cfg.BlockedKeywords {
		if kw != "" && strings.Contains(nameLower, strings.ToLower(kw)) {
			return nil, models.RejectBlockedKeyword
		}
	}

	if c.Area <= 0 || c.Area < v.cfg.MinArea || c.Area > v.cfg.MaxArea {
		return nil, models.RejectAreaOutOfRange
	}
	if c.Price <= 0 {
		return nil, models.RejectInvalidPrice
	}

	// Area is structurally positive past the range rule; the guard stays
	// so a future rule reorder cannot introduce a division by zero.
	if c.Area == 0 {
		return nil, models.RejectInvalidPrice
	}
	pricePerArea := round2(c.Price / c.Area)
	if pricePerArea < v.cfg.MinPricePerArea {
		return nil, models.RejectPriceTooLow
	}

	if c.ReceivedAt.IsZero() {
		return nil, models.RejectInvalidTimestamp
	}
	if v.now().UTC().Sub(c.ReceivedAt) > v.cfg.MaxListingAge {
		return nil, models.RejectTooOld
	}

	return &models.Listing{
		Source:       c.Source,
		Name:         c.Name,
		Link:         c.Link,
		Area:         c.Area,
		Price:        c.Price,
		PricePerArea: pricePerArea,
		Location:     deriveLocation(c.Name),
		ReceivedAt:   c.ReceivedAt,
		ExtractedAt:  v.now().UTC(),
	}, models.Accepted
}

// deriveLocation pulls a best-effort town name out of the listing title:
// the text after the last comma (stripping a trailing "(MB)" style province
// code and a leading postal code), or after the last " in ". Titles that fit
// neither shape map to "Unknown". Location is never a validation failure.
func deriveLocation(name string) string {
	if i := strings.LastIndex(name, ","); i >= 0 {
		return cleanLocation(name[i+1:], true)
	}
	if i := strings.LastIndex(name, " in "); i >= 0 {
		return cleanLocation(name[i+len(" in "):], false)
	}
	return "Unknown"
}

func cleanLocation(raw string, stripPostalCode bool) string {
	loc := strings.TrimSpace(raw)
	loc = strings.TrimSpace(provinceRe.ReplaceAllString(loc, ""))
	if stripPostalCode {
		loc = strings.TrimSpace(capRe.ReplaceAllString(loc, ""))
	}
	if loc == "" {
		return "Unknown"
	}
	return loc
}
