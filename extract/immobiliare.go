package extract

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

var (
	immobiliareHrefRe  = regexp.MustCompile(`^https://clicks\.immobiliare\.it/`)
	immobiliareStyleRe = regexp.MustCompile(`(?i)color:\s*#0074c1`)
)

// Immobiliare extracts candidates from immobiliare.it alert mails. The
// template is table-based: the anchor sits in its own cell, with sibling
// cells carrying the features (area) and the price.
type Immobiliare struct {
	logger *utils.Logger
}

func NewImmobiliare(logger *utils.Logger) *Immobiliare {
	return &Immobiliare{logger: logger}
}

func (e *Immobiliare) Source() string { return "immobiliare.it" }

func (e *Immobiliare) Extract(doc *goquery.Document, receivedAt time.Time) []*models.Candidate {
	var out []*models.Candidate

	for _, a := range anchors(doc, immobiliareHrefRe, immobiliareStyleRe) {
		c := newCandidate(e.Source(), a, receivedAt)
		if c == nil {
			continue
		}

		cell := a.Closest("td")
		if cell.Length() > 0 {
			setArea(c, cell.NextAllFiltered("td.realEstateBlock__features").First().Text())
			setPrice(c, cell.NextAllFiltered("td.realEstateBlock__price").First().Text())
		}
		fallbackScan(c, a.Closest("tr"))

		e.logger.Debug("[immobiliare.it] Candidate: %s (price set: %v, area set: %v)",
			c.Link, c.HasPrice, c.HasArea)
		out = append(out, c)
	}

	return out
}
