package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases and removes all whitespace so that
// "Nuhz Caps", "nuhz caps" and "NuhzCaps" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9_\-]+`)

// FileName turns a display name into something safe to use as a file name,
// "Nuhz Caps" becomes "nuhz_caps".
func FileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = whitespaceRegex.ReplaceAllString(name, "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	if name == "" {
		return "catalog"
	}
	return name
}
