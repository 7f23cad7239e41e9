package loomreport

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var symbolWords = strings.NewReplacer(
	"&", " and ",
	"%", " percent ",
	"+", " plus ",
	"@", " at ",
)

// transliterations covers letters that NFD does not decompose.
var transliterations = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"ł", "l", "Ł", "L",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"œ", "oe", "Œ", "OE",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ı", "i",
)

// foldDiacritics maps "Café Zürich" to "Cafe Zurich".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify converts a title to a URL-safe slug: lowercase ASCII letters and
// digits joined by single hyphens.
func Slugify(s string) string {
	s = foldDiacritics(transliterations.Replace(symbolWords.Replace(s)))
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugifyAll slugifies each value and drops the ones that come out empty.
func SlugifyAll(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := Slugify(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ParseRecipients splits a recipient list on commas, semicolons and
// whitespace.
func ParseRecipients(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	return FilterEmpty(fields)
}

// StripJSONFence removes a surrounding ```json ... ``` Markdown fence that
// models sometimes wrap structured output in.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
