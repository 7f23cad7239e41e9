package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eringen/loomreport"
)

const (
	excerptLength = 400
	recentLimit   = 5
	fallbackTag   = "ai"
)

var (
	codeFence       = regexp.MustCompile("(?s)```.*?```")
	markdownMarkers = regexp.MustCompile("[#>*_`~\\[\\]]")
)

// Excerpt returns the first length characters of markdown with code fences
// and emphasis markers removed.
func Excerpt(markdown string, length int) string {
	text := codeFence.ReplaceAllString(markdown, "")
	text = markdownMarkers.ReplaceAllString(text, "")
	r := []rune(text)
	if len(r) > length {
		r = r[:length]
	}
	return strings.TrimSpace(string(r))
}

// ChooseTags prefers the topic plan's tags, then the metadata keywords, and
// falls back to a single generic tag.
func ChooseTags(plan TopicPlan, meta MetaDescription) []string {
	if tags := loomreport.SlugifyAll(plan.Tags); len(tags) > 0 {
		return tags
	}
	if tags := loomreport.SlugifyAll(meta.Keywords); len(tags) > 0 {
		return tags
	}
	return []string{fallbackTag}
}

// summarizePosts lists the newest posts for the topic generator.
func summarizePosts(posts []loomreport.Post, limit int) string {
	if len(posts) > limit {
		posts = posts[:limit]
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("- %s (%s) — tags: %s",
			p.Title, p.Date.UTC().Format("2006-01-02"), strings.Join(p.Tags, ", ")))
	}
	return strings.Join(lines, "\n")
}
