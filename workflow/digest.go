package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport/digest"
)

// DigestPost is one post listed in a digest status.
type DigestPost struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	File  string    `json:"file"`
}

// DigestStatus is printed after generate-digest.
type DigestStatus struct {
	Status   string       `json:"status"`
	Message  string       `json:"message,omitempty"`
	HTMLPath string       `json:"htmlPath,omitempty"`
	TextPath string       `json:"textPath,omitempty"`
	Posts    []DigestPost `json:"posts,omitempty"`
}

// DigestWriter builds the weekly digest and writes it under DistDir.
type DigestWriter struct {
	Digests DigestBuilder
	Gate    Moderator
	DistDir string
	Logger  zerolog.Logger
}

// Run builds the digest for the week before ref.
func (w *DigestWriter) Run(ctx context.Context, ref time.Time) (*DigestStatus, error) {
	d, err := w.Digests.Build(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !d.HasPosts {
		w.Logger.Info().Str("week", d.Stamp).Msg("no posts in digest window")
		return &DigestStatus{Status: "no-posts", Message: "No posts to summarize."}, nil
	}

	if _, err := w.Gate.AssertSafe(ctx, d.HTML, "newsletter-html"); err != nil {
		return nil, err
	}

	htmlPath, textPath, err := digest.Write(d, w.DistDir)
	if err != nil {
		return nil, err
	}
	w.Logger.Info().Str("html", htmlPath).Str("text", textPath).Int("posts", len(d.Posts)).Msg("digest written")

	posts := make([]DigestPost, 0, len(d.Posts))
	for _, p := range d.Posts {
		posts = append(posts, DigestPost{Title: p.Title, Date: p.Date, File: p.RelativePath})
	}
	return &DigestStatus{
		Status:   "digest-ready",
		HTMLPath: htmlPath,
		TextPath: textPath,
		Posts:    posts,
	}, nil
}
