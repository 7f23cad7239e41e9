package site

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/loomreport"
)

// Archive is the JSON listing consumed by the archive and tag pages.
type Archive struct {
	Generated string         `json:"generated"`
	Tags      []string       `json:"tags"`
	Years     []ArchiveYear  `json:"years"`
	Posts     []ArchiveEntry `json:"posts"`
}

// ArchiveYear lists the post URLs of one year.
type ArchiveYear struct {
	Year  int      `json:"year"`
	Posts []string `json:"posts"`
}

// ArchiveEntry is one post in the archive.
type ArchiveEntry struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	ReadableDate string   `json:"readableDate"`
	Tags         []string `json:"tags"`
	Meta         Meta     `json:"meta"`
}

// IndexPaths are the files written by WriteIndex.
type IndexPaths struct {
	Feed    string `json:"feed"`
	Sitemap string `json:"sitemap"`
	Archive string `json:"archive"`
}

// BuildArchive assembles the archive listing for posts.
func BuildArchive(posts []loomreport.Post, now time.Time) Archive {
	a := Archive{
		Generated: now.UTC().Format(time.RFC3339),
		Tags:      TagList(posts),
		Posts:     make([]ArchiveEntry, 0, len(posts)),
	}
	for _, g := range ByYear(posts) {
		y := ArchiveYear{Year: g.Year}
		for _, p := range g.Posts {
			y.Posts = append(y.Posts, p.URL)
		}
		a.Years = append(a.Years, y)
	}
	for _, p := range posts {
		a.Posts = append(a.Posts, ArchiveEntry{
			URL:          p.URL,
			Title:        p.Title,
			Date:         HTMLDateString(p.Date),
			ReadableDate: ReadableDate(p.Date),
			Tags:         p.Tags,
			Meta:         PostMeta(p),
		})
	}
	return a
}

// WriteIndex writes feed.xml, sitemap.xml and archive.json into dir.
func WriteIndex(dir string, info Info, posts []loomreport.Post, now time.Time) (IndexPaths, error) {
	paths := IndexPaths{
		Feed:    filepath.Join(dir, "feed.xml"),
		Sitemap: filepath.Join(dir, "sitemap.xml"),
		Archive: filepath.Join(dir, "archive.json"),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, loomreport.NewError(loomreport.KindFilesystem, "create dist dir", err)
	}

	feed := Feed(info, posts)
	if feed.Updated.IsZero() {
		feed.Updated = now
	}
	rss, err := feed.ToRss()
	if err != nil {
		return paths, loomreport.NewError(loomreport.KindUnknown, "render feed", err)
	}
	if err := os.WriteFile(paths.Feed, []byte(rss), 0o644); err != nil {
		return paths, loomreport.NewError(loomreport.KindFilesystem, "write feed", err)
	}

	var sm bytes.Buffer
	if err := WriteSitemap(&sm, info, posts); err != nil {
		return paths, loomreport.NewError(loomreport.KindUnknown, "render sitemap", err)
	}
	if err := os.WriteFile(paths.Sitemap, sm.Bytes(), 0o644); err != nil {
		return paths, loomreport.NewError(loomreport.KindFilesystem, "write sitemap", err)
	}

	archive, err := json.MarshalIndent(BuildArchive(posts, now), "", "  ")
	if err != nil {
		return paths, loomreport.NewError(loomreport.KindUnknown, "render archive", err)
	}
	if err := os.WriteFile(paths.Archive, archive, 0o644); err != nil {
		return paths, loomreport.NewError(loomreport.KindFilesystem, "write archive", err)
	}
	return paths, nil
}
