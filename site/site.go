// Package site derives the collections and feeds the static site is built
// from: tag and year listings, RSS, and the sitemap.
package site

import (
	"sort"
	"strings"
	"time"

	"github.com/eringen/loomreport"
)

// Info describes the site itself.
type Info struct {
	Name        string
	URL         string
	Description string
}

// YearGroup is one year of posts, newest first.
type YearGroup struct {
	Year  int               `json:"year"`
	Posts []loomreport.Post `json:"-"`
}

// Meta is the SEO metadata of a post page.
type Meta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Image       string   `json:"image,omitempty"`
	Type        string   `json:"type"`
}

// TagList returns the unique tags across posts, sorted. Collection tags
// ("post", "all") and tags starting with "_" are skipped.
func TagList(posts []loomreport.Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == "" || t == "post" || t == "all" || strings.HasPrefix(t, "_") {
				continue
			}
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// ByYear groups posts by UTC year, newest year first.
func ByYear(posts []loomreport.Post) []YearGroup {
	index := make(map[int]int)
	var groups []YearGroup
	for _, p := range posts {
		y := p.Date.UTC().Year()
		i, ok := index[y]
		if !ok {
			i = len(groups)
			index[y] = i
			groups = append(groups, YearGroup{Year: y})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	for _, g := range groups {
		sort.SliceStable(g.Posts, func(a, b int) bool {
			return g.Posts[a].Date.After(g.Posts[b].Date)
		})
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Year > groups[b].Year })
	return groups
}

// ReadableDate formats t in UTC as "October 18, 2026". The zero time is "".
func ReadableDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

// HTMLDateString formats t in UTC as "2026-10-18". The zero time is "".
func HTMLDateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// PostMeta returns the page metadata for p. Keywords fall back to tags.
func PostMeta(p loomreport.Post) Meta {
	m := Meta{
		Title:       p.Title,
		Description: p.Description,
		Keywords:    p.Keywords,
		Type:        "article",
	}
	if len(m.Keywords) == 0 {
		m.Keywords = p.Tags
	}
	if p.Hero != nil {
		m.Image = p.Hero.Image
	}
	return m
}
