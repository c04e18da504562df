package extract

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-mail-scraper/models"
	"estate-mail-scraper/utils"
)

var (
	idealistaHrefRe  = regexp.MustCompile(`^https://www\.idealista\.it/immobile/`)
	idealistaStyleRe = regexp.MustCompile(`(?i)color:\s*#2172b2`)

	idealistaPriceBoldRe = regexp.MustCompile(`(?i)font-weight:\s*bold`)
	idealistaPriceSizeRe = regexp.MustCompile(`(?i)font-size`)
)

// Idealista extracts candidates from idealista.it alert mails. Its template
// is the least regular of the three, so the structural tier leans harder on
// the regex fallback over the enclosing block.
type Idealista struct {
	logger *utils.Logger
}

func NewIdealista(logger *utils.Logger) *Idealista {
	return &Idealista{logger: logger}
}

func (e *Idealista) Source() string { return "idealista.it" }

func (e *Idealista) Extract(doc *goquery.Document, receivedAt time.Time) []*models.Candidate {
	var out []*models.Candidate

	for _, a := range anchors(doc, idealistaHrefRe, idealistaStyleRe) {
		c := newCandidate(e.Source(), a, receivedAt)
		if c == nil {
			continue
		}

		block := container(a)
		if s := findStyled(block, "span", idealistaPriceBoldRe, idealistaPriceSizeRe); s != nil {
			setPrice(c, s.Text())
		}
		block.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
			if areaRe.MatchString(div.Text()) {
				setArea(c, div.Text())
				return false
			}
			return true
		})
		fallbackScan(c, block)

		e.logger.Debug("[idealista.it] Candidate: %s (price set: %v, area set: %v)",
			c.Link, c.HasPrice, c.HasArea)
		out = append(out, c)
	}

	return out
}
