// Package prompts loads the Markdown prompt templates used by the content
// workflows and fills in their {{ placeholders }}.
package prompts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/eringen/loomreport"
)

// Defaults contains the built-in prompt templates.
//
//go:embed templates/*.md
var Defaults embed.FS

// Template names shipped in Defaults.
const (
	TopicGenerator  = "topic-generator.md"
	ArticleWriter   = "article-writer.md"
	MetaDescription = "meta-description.md"
	ImagePrompt     = "image-prompt.md"
)

var placeholder = regexp.MustCompile(`{{\s*([\w.]+)\s*}}`)

// Loader reads templates from an fs.FS.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader over fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// New returns a Loader reading dir when it exists, and the embedded defaults
// otherwise.
func New(dir string) *Loader {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return NewLoader(os.DirFS(dir))
		}
	}
	return Embedded()
}

// Embedded returns a Loader over the built-in templates.
func Embedded() *Loader {
	sub, err := fs.Sub(Defaults, "templates")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory exists
	}
	return NewLoader(sub)
}

// Render reads the named template and interpolates vars into it.
func (l *Loader) Render(name string, vars map[string]any) (string, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", loomreport.NewError(loomreport.KindTemplateNotFound, "load prompt "+name, err)
		}
		return "", loomreport.NewError(loomreport.KindFilesystem, "load prompt "+name, err)
	}
	return Interpolate(string(data), vars), nil
}

// Interpolate replaces every {{ name }} in template in a single pass. Strings
// are inserted verbatim, other values as indented JSON, unbound names as "".
func Interpolate(template string, vars map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		value, ok := vars[key]
		if !ok || value == nil {
			return ""
		}
		if s, ok := value.(string); ok {
			return s
		}
		b, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(b)
	})
}
