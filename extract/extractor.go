package extract

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate-mail-scraper/models"
	"estate-mail-scraper/textutil"
)

// Extractor turns one parsed email document into raw listing candidates.
// Implementations never fail: malformed markup yields fewer candidates, or
// candidates with unset fields for the validator to reject.
type Extractor interface {
	Source() string
	Extract(doc *goquery.Document, receivedAt time.Time) []*models.Candidate
}

var (
	priceFallbackRe = regexp.MustCompile(`([\d.,]+)\s*€`)
	// m², m2 and mq all appear across provider templates
	areaRe = regexp.MustCompile(`(?i)(\d+)\s*m[²2q]`)
)

// anchors returns the anchor elements whose href matches the provider's URL
// pattern. Anchors also carrying the provider's inline colour hint are
// preferred; if the template changed and none match the hint, the href-only
// set is used so extraction degrades instead of going silent.
func anchors(doc *goquery.Document, hrefRe, styleRe *regexp.Regexp) []*goquery.Selection {
	var hrefOnly, styled []*goquery.Selection

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !hrefRe.MatchString(href) {
			return
		}
		hrefOnly = append(hrefOnly, s)
		if style, ok := s.Attr("style"); ok && styleRe.MatchString(style) {
			styled = append(styled, s)
		}
	})

	if len(styled) > 0 {
		return styled
	}
	return hrefOnly
}

// newCandidate builds the skeleton candidate from an anchor. Anchors with an
// empty link or empty visible text are not usable and yield nil.
func newCandidate(source string, a *goquery.Selection, receivedAt time.Time) *models.Candidate {
	link, _ := a.Attr("href")
	name := textutil.Clean(a.Text())
	if link == "" || name == "" {
		return nil
	}
	return &models.Candidate{
		Source:     source,
		Name:       name,
		Link:       link,
		ReceivedAt: receivedAt,
	}
}

// setArea parses an area out of the given text into the candidate.
func setArea(c *models.Candidate, text string) {
	if m := areaRe.FindStringSubmatch(text); m != nil {
		if v, ok := textutil.ExtractInt(m[1]); ok {
			c.Area, c.HasArea = float64(v), true
		}
	}
}

// setPrice parses a price out of the given text into the candidate.
func setPrice(c *models.Candidate, text string) {
	if v, ok := textutil.ExtractNumber(text); ok {
		c.Price, c.HasPrice = v, true
	}
}

// fallbackScan is the last extraction tier: a regex pass over the whole
// enclosing block's text for whichever of price and area is still unset.
func fallbackScan(c *models.Candidate, container *goquery.Selection) {
	if container == nil || container.Length() == 0 {
		return
	}
	text := container.Text()

	if !c.HasPrice {
		if m := priceFallbackRe.FindStringSubmatch(text); m != nil {
			setPrice(c, m[1])
		}
	}
	if !c.HasArea {
		setArea(c, text)
	}
}

// container picks the enclosing block of an anchor: the nearest table cell,
// else the nearest div, else the direct parent.
func container(a *goquery.Selection) *goquery.Selection {
	if cell := a.Closest("td"); cell.Length() > 0 {
		return cell
	}
	if div := a.Closest("div"); div.Length() > 0 {
		return div
	}
	return a.Parent()
}

// findStyled returns the first descendant with the given tag whose inline
// style matches every pattern, or nil.
func findStyled(root *goquery.Selection, tag string, patterns ...*regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	root.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		for _, p := range patterns {
			if !p.MatchString(style) {
				return true
			}
		}
		found = s
		return false
	})
	return found
}
