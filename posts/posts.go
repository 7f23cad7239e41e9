// Package posts reads and writes the Markdown post tree: YAML frontmatter
// followed by a Markdown body, stored as <root>/<yyyy>/<mm>/<dd>-<slug>.md.
package posts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/loomreport"
)

const (
	delimiter = "---"
	extension = ".md"
)

// dateLayouts are tried in order when resolving a post date. They cover the
// YAML timestamp forms. Values without a zone are UTC.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999 Z07:00",
	"2006-1-2 15:4:5.999999999 -07",
	"2006-1-2T15:4:5.999999999",
	"2006-1-2 15:4:5.999999999",
}

// Repository reads posts from an fs.FS and writes them under root.
type Repository struct {
	root  string
	fsys  fs.FS
	now   func() time.Time
	write func(w io.Writer, data []byte) error
}

// New returns a Repository over the directory root.
func New(root string) *Repository {
	return NewFS(os.DirFS(root), root)
}

// NewFS returns a Repository reading from fsys. root is used to build the
// Path of loaded posts and the destination of saved ones.
func NewFS(fsys fs.FS, root string) *Repository {
	return &Repository{
		root:  root,
		fsys:  fsys,
		now:   time.Now,
		write: writeAll,
	}
}

// Root returns the posts root directory.
func (r *Repository) Root() string { return r.root }

// ListFiles returns every Markdown file under the root, slash-separated and
// relative to it, in lexical walk order. A missing root yields no files.
func (r *Repository) ListFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindFilesystem, "list posts", err)
	}
	return files, nil
}

// Load parses every post and returns them newest first. Posts with equal
// dates keep their ListFiles order.
func (r *Repository) Load() ([]loomreport.Post, error) {
	files, err := r.ListFiles()
	if err != nil {
		return nil, err
	}

	now := r.now()
	posts := make([]loomreport.Post, 0, len(files))
	for _, rel := range files {
		raw, err := fs.ReadFile(r.fsys, rel)
		if err != nil {
			return nil, loomreport.NewError(loomreport.KindFilesystem, "read post "+rel, err)
		}
		fm, body, err := Parse(raw)
		if err != nil {
			return nil, loomreport.NewError(loomreport.KindFilesystem, "parse post "+rel, err)
		}
		date, err := ResolveDate(fm, now)
		if err != nil {
			return nil, loomreport.NewError(loomreport.KindFilesystem, "parse post "+rel, err)
		}
		posts = append(posts, loomreport.Post{
			Frontmatter:  fm,
			Content:      body,
			Path:         filepath.Join(r.root, filepath.FromSlash(rel)),
			RelativePath: rel,
			URL:          PostURL(rel),
			Date:         date,
		})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

// ResolveDate returns the frontmatter date, else the published date, else
// fallback. A value that is present but unparseable is an error.
func ResolveDate(fm loomreport.Frontmatter, fallback time.Time) (time.Time, error) {
	for _, field := range []struct{ name, value string }{
		{"date", fm.Date},
		{"published", fm.Published},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		t, ok := ParseDate(field.value)
		if !ok {
			return time.Time{}, fmt.Errorf("unrecognised %s %q", field.name, field.value)
		}
		return t, nil
	}
	return fallback, nil
}

// ParseDate parses a frontmatter date value.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BuildFilename returns root/yyyy/mm/dd-slug.md for title and date. The date
// is taken in UTC.
func BuildFilename(root, title string, date time.Time) string {
	d := date.UTC()
	name := fmt.Sprintf("%02d-%s%s", d.Day(), loomreport.Slugify(title), extension)
	return filepath.Join(root, fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", int(d.Month())), name)
}

// BuildFilename is BuildFilename under the repository root.
func (r *Repository) BuildFilename(title string, date time.Time) string {
	return BuildFilename(r.root, title, date)
}

// Save writes a post to its derived path, replacing any existing file
// atomically, and returns that path.
func (r *Repository) Save(fm loomreport.Frontmatter, content string) (string, error) {
	if loomreport.Slugify(fm.Title) == "" {
		return "", loomreport.Errorf(loomreport.KindMisuse, "save post", "post title %q has no usable characters", fm.Title)
	}
	date := r.now()
	if strings.TrimSpace(fm.Date) != "" {
		var ok bool
		if date, ok = ParseDate(fm.Date); !ok {
			return "", loomreport.Errorf(loomreport.KindMisuse, "save post", "unrecognised date %q", fm.Date)
		}
	}
	target := r.BuildFilename(fm.Title, date)

	data, err := Marshal(fm, content)
	if err != nil {
		return "", loomreport.NewError(loomreport.KindFilesystem, "encode post", err)
	}
	if err := writeFileAtomic(target, data, r.write); err != nil {
		return "", loomreport.NewError(loomreport.KindFilesystem, "save post", err)
	}
	return target, nil
}

// Parse splits a post file into frontmatter and body. A file without a
// leading "---" line has an empty header.
func Parse(raw []byte) (loomreport.Frontmatter, string, error) {
	var fm loomreport.Frontmatter
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	if !strings.HasPrefix(text, delimiter+"\n") {
		return fm, text, nil
	}
	rest := text[len(delimiter)+1:]

	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter+"\n"), rest == delimiter:
		body = strings.TrimPrefix(strings.TrimPrefix(rest, delimiter), "\n")
	default:
		end := strings.Index(rest, "\n"+delimiter+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+delimiter) {
				return fm, "", errors.New("unterminated frontmatter")
			}
			end = len(rest) - len(delimiter) - 1
			header, body = rest[:end], ""
		} else {
			header, body = rest[:end], rest[end+len(delimiter)+2:]
		}
	}

	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return fm, "", fmt.Errorf("frontmatter: %w", err)
		}
	}
	return fm, body, nil
}

// Marshal renders frontmatter and body as a post file. The body is trimmed
// and ends with exactly one newline.
func Marshal(fm loomreport.Frontmatter, content string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(strings.TrimSpace(content))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// PostURL returns the site URL path for a slash-separated relative file path.
func PostURL(rel string) string {
	return "/posts/" + strings.TrimSuffix(path.Clean(rel), extension) + "/"
}
