package loomreport

import "time"

// Frontmatter is the YAML header of a post file. Field order here is the
// order fields are written to disk.
type Frontmatter struct {
	Title          string           `yaml:"title"`
	Description    string           `yaml:"description,omitempty"`
	Date           string           `yaml:"date,omitempty"`
	Published      string           `yaml:"published,omitempty"`
	Tags           []string         `yaml:"tags,omitempty"`
	Keywords       []string         `yaml:"keywords,omitempty"`
	Hero           *Hero            `yaml:"hero,omitempty"`
	ImagePrompt    string           `yaml:"image_prompt,omitempty"`
	NegativePrompt string           `yaml:"negative_prompt,omitempty"`
	Moderation     *ModerationStamp `yaml:"moderation,omitempty"`

	// Extra keeps unknown header keys so hand-written posts survive a rewrite.
	Extra map[string]any `yaml:",inline"`
}

// Hero is the primary illustration of a post.
type Hero struct {
	Image   string       `yaml:"image,omitempty"`
	Alt     string       `yaml:"alt,omitempty"`
	Sources []HeroSource `yaml:"sources,omitempty"`
}

// HeroSource is one responsive variant of the hero image.
type HeroSource struct {
	Width int    `yaml:"width"`
	Src   string `yaml:"src"`
}

// ModerationStamp records that a post passed the safety gate.
type ModerationStamp struct {
	Status    string `yaml:"status"`
	Timestamp string `yaml:"timestamp"`
}

// Post is a parsed post file.
type Post struct {
	Frontmatter
	Content      string
	Path         string    // path including the posts root
	RelativePath string    // slash-separated, relative to the posts root
	URL          string    // "/posts/2024/01/15-title/"
	Date         time.Time // resolved publish date
}
