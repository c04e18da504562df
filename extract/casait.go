package extract

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

var (
	casaHrefRe  = regexp.MustCompile(`^https://www\.casa\.it/immobili/`)
	casaStyleRe = regexp.MustCompile(`(?i)color:\s*#1A1F24`)

	casaAreaStyleRe  = regexp.MustCompile(`(?i)padding-right:\s*10px`)
	casaPriceStyleRe = regexp.MustCompile(`(?i)font-weight:\s*bold`)
)

// Casait extracts candidates from casa.it alert mails. The template marks
// the area and price spans with inline styles rather than classes.
type Casait struct {
	logger *utils.Logger
}

func NewCasait(logger *utils.Logger) *Casait {
	return &Casait{logger: logger}
}

func (e *Casait) Source() string { return "casa.it" }

func (e *Casait) Extract(doc *goquery.Document, receivedAt time.Time) []*models.Candidate {
	var out []*models.Candidate

	for _, a := range anchors(doc, casaHrefRe, casaStyleRe) {
		c := newCandidate(e.Source(), a, receivedAt)
		if c == nil {
			continue
		}

		parent := a.Parent()
		if s := findStyled(parent, "span", casaAreaStyleRe); s != nil {
			setArea(c, s.Text())
		}
		if s := findStyled(parent, "span", casaPriceStyleRe); s != nil {
			setPrice(c, s.Text())
		}
		fallbackScan(c, container(a))

		e.logger.Debug("[casa.it] Candidate: %s (price set: %v, area set: %v)",
			c.Link, c.HasPrice, c.HasArea)
		out = append(out, c)
	}

	return out
}
