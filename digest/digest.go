// Package digest builds the weekly newsletter: the posts published in the
// previous Monday-to-Monday week, rendered as an HTML email and plain text.
package digest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/loomreport"
)

// WrapWidth is the column the plain-text body is wrapped at.
const WrapWidth = 80

// PostSource loads the post corpus, newest first.
type PostSource interface {
	Load() ([]loomreport.Post, error)
}

// Options configures the rendered email.
type Options struct {
	SiteName       string
	SiteURL        string
	UnsubscribeURL string
}

// Digest is one week's newsletter.
type Digest struct {
	HasPosts    bool
	WeekLabel   string
	Stamp       string
	WindowStart time.Time
	WeekStart   time.Time
	Posts       []loomreport.Post
	HTML        string
	Text        string
}

// Builder assembles digests from a PostSource.
type Builder struct {
	posts PostSource
	opts  Options
}

// NewBuilder returns a Builder.
func NewBuilder(posts PostSource, opts Options) *Builder {
	if opts.UnsubscribeURL == "" {
		opts.UnsubscribeURL = "#"
	}
	return &Builder{posts: posts, opts: opts}
}

// WeekWindow returns the Monday 00:00 at or before ref, in ref's location,
// and the instant seven days before it.
func WeekWindow(ref time.Time) (weekStart, windowStart time.Time) {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	weekStart = midnight.AddDate(0, 0, -offset)
	windowStart = weekStart.AddDate(0, 0, -7)
	return weekStart, windowStart
}

// WeekLabel renders a window as "Jan 2 – Jan 9, 2026".
func WeekLabel(windowStart, weekStart time.Time) string {
	return windowStart.Format("Jan 2") + " – " + weekStart.Format("Jan 2, 2006")
}

// Build selects the posts dated in [windowStart, weekStart) for ref and
// renders them. Without matching posts the digest has empty bodies.
func (b *Builder) Build(ctx context.Context, ref time.Time) (*Digest, error) {
	weekStart, windowStart := WeekWindow(ref)

	all, err := b.posts.Load()
	if err != nil {
		return nil, err
	}

	var recent []loomreport.Post
	for _, p := range all {
		if !p.Date.Before(windowStart) && p.Date.Before(weekStart) {
			recent = append(recent, p)
		}
	}

	d := &Digest{
		HasPosts:    len(recent) > 0,
		WeekLabel:   WeekLabel(windowStart, weekStart),
		Stamp:       weekStart.Format("2006-01-02"),
		WindowStart: windowStart,
		WeekStart:   weekStart,
		Posts:       recent,
	}
	if !d.HasPosts {
		return d, nil
	}

	var buf bytes.Buffer
	if err := Email(b.opts, d.WeekLabel, recent).Render(ctx, &buf); err != nil {
		return nil, loomreport.NewError(loomreport.KindUnknown, "render digest", err)
	}
	d.HTML = buf.String()

	text, err := HTMLToText(d.HTML, WrapWidth)
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindUnknown, "render digest text", err)
	}
	d.Text = text
	return d, nil
}

// OutputPaths returns the newsletter directory under distDir and the HTML
// and text file paths for stamp.
func OutputPaths(distDir, stamp string) (dir, htmlPath, textPath string) {
	dir = filepath.Join(distDir, "newsletter")
	return dir, filepath.Join(dir, stamp+".html"), filepath.Join(dir, stamp+".txt")
}

// Write stores both bodies under distDir and returns their paths.
func Write(d *Digest, distDir string) (htmlPath, textPath string, err error) {
	dir, htmlPath, textPath := OutputPaths(distDir, d.Stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", loomreport.NewError(loomreport.KindFilesystem, "create newsletter dir", err)
	}
	if err := os.WriteFile(htmlPath, []byte(d.HTML), 0o644); err != nil {
		return "", "", loomreport.NewError(loomreport.KindFilesystem, "write digest html", err)
	}
	if err := os.WriteFile(textPath, []byte(d.Text), 0o644); err != nil {
		return "", "", loomreport.NewError(loomreport.KindFilesystem, "write digest text", err)
	}
	return htmlPath, textPath, nil
}
