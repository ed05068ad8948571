package catalog

import (
	"fmt"
	"regexp"
)

// inline tags that can be written in the document, always surrounded by
// parentheses, like "Ghost (ka_cover)".
const (
	MarkerSelfOrdered = "ka_self_order"
	MarkerRelease     = "ka_release"
	MarkerCover       = "ka_cover"
	MarkerNote        = "ka_note"
)

// Matcher extracts a single field out of free text.
type Matcher struct {
	re *regexp.Regexp
}

func newMatcher(pattern string) Matcher {
	return Matcher{re: regexp.MustCompile(pattern)}
}

// MarkerMatcher matches "(marker)" ignoring case.
func MarkerMatcher(marker string) Matcher {
	return newMatcher(fmt.Sprintf(`(?i)\(%s\)`, regexp.QuoteMeta(marker)))
}

var (
	// TitleDate supports "DD Month YYYY", "Month YYYY" and "YYYY", month
	// names can be abbreviated.
	TitleDate = newMatcher(`(?i)\(((\d{2})*[a-zA-Z ]*\d{4})\)`)
	// ColorwayDate supports "Month YYYY" and "YYYY".
	ColorwayDate = newMatcher(`(?i)\(([a-zA-Z ]*\d{4})\)`)

	CoverMarker       = MarkerMatcher(MarkerCover)
	SelfOrderedMarker = MarkerMatcher(MarkerSelfOrdered)
)

// Match returns the first captured value (or the whole match when the
// pattern has no group) and text with every match removed.
func (m Matcher) Match(text string) (value string, rest string, ok bool) {
	groups := m.re.FindStringSubmatch(text)
	if groups == nil {
		return "", text, false
	}
	value = groups[0]
	if len(groups) > 1 {
		value = groups[1]
	}
	return value, m.Strip(text), true
}

func (m Matcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// Strip removes every match from text.
func (m Matcher) Strip(text string) string {
	return m.re.ReplaceAllString(text, "")
}

// IsSelfOrdered reports if text carries the self-ordered marker.
func IsSelfOrdered(text string) bool {
	return SelfOrderedMarker.Matches(text)
}
