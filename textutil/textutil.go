package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// leadingJunkRe strips prefixes like "Da " or "a partire da" ahead of
	// the first digit or euro sign.
	leadingJunkRe = regexp.MustCompile(`^[^\d€]*`)
	digitRunRe    = regexp.MustCompile(`\d[\d.,]*`)
	// groupedRe matches Italian thousands grouping: 160.000, 1.234.567
	groupedRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
)

// Clean canonicalises raw extracted text: BOM artifacts and non-breaking
// spaces go away, runs of whitespace collapse to one space, ends are trimmed.
// Clean is idempotent.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\uFEFF", "")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize lowercases the text, strips punctuation and symbols, and returns
// the remaining words in order.
func Tokenize(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "\uFEFF", ""))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
	return strings.Fields(s)
}

// ExtractNumber parses the first numeric run out of free text, tolerating
// Italian formatting: '.' groups thousands, ',' marks the decimal point.
// Currency signs and non-numeric prefixes are ignored. The boolean is false
// when no parseable number is present; callers treat that as "field unset",
// never as an error.
func ExtractNumber(text string) (float64, bool) {
	text = leadingJunkRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "€", "")

	run := digitRunRe.FindString(text)
	if run == "" {
		return 0, false
	}
	run = strings.Trim(run, ".,")

	switch {
	case strings.Contains(run, ","):
		// Comma decimal: every dot before it is a thousands separator.
		run = strings.ReplaceAll(run, ".", "")
		run = strings.Replace(run, ",", ".", 1)
	case strings.Count(run, ".") > 1 || groupedRe.MatchString(run):
		run = strings.ReplaceAll(run, ".", "")
	}

	v, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractInt is ExtractNumber truncated to an integer.
func ExtractInt(text string) (int, bool) {
	v, ok := ExtractNumber(text)
	if !ok {
		return 0, false
	}
	return int(v), true
}
