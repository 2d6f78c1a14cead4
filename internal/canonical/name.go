// Package canonical turns free-text party and lawyer names into a
// comparable key so that spelling variants of one organisation rank as a
// single entity.
package canonical

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Word boundaries are spelled out because \b only knows ASCII letters and
// names keep letters such as Ł or Ø after accent stripping. A boundary
// shared by two adjacent matches is consumed by the first one; the
// fixed-point loop in Name picks up the second.
var (
	// "S.A.", "S/A", "S A" and "SA" all become SA before separators go away.
	reSA = regexp.MustCompile(`(^|[^\p{L}\p{N}])S[./\s]?A([^\p{L}\p{N}]|$)`)

	reSeparators = regexp.MustCompile(`[./-]`)

	// Corporate-form suffixes, whole words only.
	reSuffixes = regexp.MustCompile(`(^|[^\p{L}\p{N}])(?:SA|LTDA|LIMITADA|ME|EPP|EIRELI|INC|LLC)([^\p{L}\p{N}]|$)`)

	reSpaces = regexp.MustCompile(`\s+`)
)

// Name canonicalizes a name: trimmed, uppercased, accents stripped,
// corporate suffixes and the separators '.', '/', '-' removed, whitespace
// collapsed. The rewrite runs to a fixed point, so Name(Name(s)) == Name(s).
func Name(s string) string {
	s = stripAccents(strings.ToUpper(strings.TrimSpace(s)))
	for {
		next := rewrite(s)
		if next == s {
			return s
		}
		s = next
	}
}

// Value canonicalizes v when it is a string and returns every other value
// (including nil) unchanged.
func Value(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return Name(s)
}

func rewrite(s string) string {
	s = reSA.ReplaceAllString(s, "${1}SA${2}")
	s = reSeparators.ReplaceAllString(s, " ")
	s = reSuffixes.ReplaceAllString(s, "${1}${2}")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripAccents removes combining marks: "COMÉRCIO" -> "COMERCIO".
func stripAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
