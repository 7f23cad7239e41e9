package posts

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/loomreport"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestListFiles(t *testing.T) {
	repo := NewFS(fstest.MapFS{
		"2024/01/15-a.md":   {Data: []byte("a")},
		"2024/01/notes.txt": {Data: []byte("x")},
		"about.md":          {Data: []byte("b")},
		"drafts/deep/x.md":  {Data: []byte("c")},
	}, "src/posts")

	files, err := repo.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/01/15-a.md", "about.md", "drafts/deep/x.md"}, files)
}

func TestListFilesMissingRoot(t *testing.T) {
	repo := New(filepath.Join(t.TempDir(), "absent"))

	files, err := repo.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadSortsNewestFirstWithStableTies(t *testing.T) {
	repo := NewFS(fstest.MapFS{
		"2024/01/15-a.md": {Data: []byte("---\ntitle: A\ndate: 2024-01-15\n---\nBody A\n")},
		"2024/02/01-b.md": {Data: []byte("---\ntitle: B\ndate: 2024-02-01\n---\nBody B\n")},
		"2024/02/01-c.md": {Data: []byte("---\ntitle: C\npublished: 2024-02-01\n---\nBody C\n")},
		"drafts/x.md":     {Data: []byte("---\ntitle: X\n---\nno date\n")},
	}, "src/posts")
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = fixedNow(now)

	posts, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, posts, 4)

	var titles []string
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"X", "B", "C", "A"}, titles)

	assert.Equal(t, now, posts[0].Date)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), posts[2].Date)
	assert.Equal(t, "/posts/2024/01/15-a/", posts[3].URL)
	assert.Equal(t, "2024/01/15-a.md", posts[3].RelativePath)
	assert.Equal(t, filepath.Join("src/posts", "2024", "01", "15-a.md"), posts[3].Path)
	assert.Equal(t, "Body A\n", posts[3].Content)
}

func TestLoadRejectsBrokenFrontmatter(t *testing.T) {
	repo := NewFS(fstest.MapFS{
		"bad.md": {Data: []byte("---\ntitle: [unclosed\n---\nbody\n")},
	}, "src/posts")

	_, err := repo.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, loomreport.ErrFilesystem)
	assert.Contains(t, err.Error(), "bad.md")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		title string
		body  string
	}{
		{"no header", "# Just markdown\n", "", "# Just markdown\n"},
		{"header", "---\ntitle: Hi\n---\nbody\n", "Hi", "body\n"},
		{"crlf", "---\r\ntitle: Hi\r\n---\r\nbody\r\n", "Hi", "body\n"},
		{"empty header", "---\n---\nbody\n", "", "body\n"},
		{"header only", "---\ntitle: Hi\n---", "Hi", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.title, fm.Title)
			assert.Equal(t, tt.body, body)
		})
	}

	_, _, err := Parse([]byte("---\ntitle: Hi\nbody\n"))
	assert.Error(t, err)
}

func TestParseKeepsUnknownKeys(t *testing.T) {
	fm, _, err := Parse([]byte("---\ntitle: Hi\nlayout: post.njk\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, "post.njk", fm.Extra["layout"])
}

func TestBuildFilename(t *testing.T) {
	date := time.Date(2024, 3, 5, 23, 0, 0, 0, time.FixedZone("EST", -5*3600))

	got := BuildFilename("src/posts", "Hello, World: Go & Café!", date)
	assert.Equal(t, filepath.Join("src/posts", "2024", "03", "06-hello-world-go-and-cafe.md"), got)
	assert.Equal(t, got, BuildFilename("src/posts", "Hello, World: Go & Café!", date))

	got = BuildFilename("root", "x", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, filepath.Join("root", "2026", "01", "09-x.md"), got)
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	repo := New(root)

	fm := loomreport.Frontmatter{
		Title:       "The Loom of Agents",
		Description: "How agent frameworks weave together",
		Date:        "2026-10-12",
		Tags:        []string{"ai", "agents"},
		Keywords:    []string{"agents", "frameworks"},
		Hero: &loomreport.Hero{
			Image: "/assets/generated/2026-10-12-the-loom-of-agents-1600.jpg",
			Alt:   "A glowing loom",
			Sources: []loomreport.HeroSource{
				{Width: 1600, Src: "/assets/generated/2026-10-12-the-loom-of-agents-1600.jpg"},
				{Width: 800, Src: "/assets/generated/2026-10-12-the-loom-of-agents-800.jpg"},
			},
		},
		ImagePrompt:    "loom, neon",
		NegativePrompt: "text",
		Moderation:     &loomreport.ModerationStamp{Status: "passed", Timestamp: "2026-10-12T08:00:00Z"},
	}

	path, err := repo.Save(fm, "\n\n# Heading\n\nBody text.\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2026", "10", "12-the-loom-of-agents.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(raw) > 0 && raw[len(raw)-1] == '\n')
	assert.Contains(t, string(raw), "---\n# Heading\n\nBody text.\n")
	assert.NotContains(t, string(raw), "Body text.\n\n")

	posts, err := New(root).Load()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	got := posts[0]
	assert.Equal(t, fm.Title, got.Title)
	assert.Equal(t, fm.Description, got.Description)
	assert.Equal(t, fm.Date, got.Frontmatter.Date)
	assert.Equal(t, fm.Tags, got.Tags)
	assert.Equal(t, fm.Keywords, got.Keywords)
	assert.Equal(t, fm.Hero, got.Hero)
	assert.Equal(t, fm.Moderation, got.Moderation)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "/posts/2026/10/12-the-loom-of-agents/", got.URL)
}

func TestSaveWithoutDateUsesNow(t *testing.T) {
	root := t.TempDir()
	repo := New(root)
	repo.now = fixedNow(time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC))

	path, err := repo.Save(loomreport.Frontmatter{Title: "Undated"}, "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2026", "10", "18-undated.md"), path)
}

func TestSaveRejectsEmptySlug(t *testing.T) {
	_, err := New(t.TempDir()).Save(loomreport.Frontmatter{Title: "!!!"}, "x")
	assert.ErrorIs(t, err, loomreport.ErrMisuse)
}

func TestSaveInterruptedWriteKeepsOldContent(t *testing.T) {
	root := t.TempDir()
	repo := New(root)
	fm := loomreport.Frontmatter{Title: "Stable", Date: "2026-10-01"}

	path, err := repo.Save(fm, "old body")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	repo.write = func(w io.Writer, data []byte) error {
		_, _ = w.Write(data[:len(data)/2])
		return errors.New("disk full")
	}
	_, err = repo.Save(fm, "a much longer replacement body that never fully lands")
	require.Error(t, err)
	assert.ErrorIs(t, err, loomreport.ErrFilesystem)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
	assert.Equal(t, "01-stable.md", entries[0].Name())
}

func TestSaveReplacesExisting(t *testing.T) {
	root := t.TempDir()
	repo := New(root)
	fm := loomreport.Frontmatter{Title: "Stable", Date: "2026-10-01"}

	_, err := repo.Save(fm, "first")
	require.NoError(t, err)
	path, err := repo.Save(fm, "second")
	require.NoError(t, err)

	_, body, err := Parse(mustRead(t, path))
	require.NoError(t, err)
	assert.Equal(t, "second\n", body)
}

func TestResolveDate(t *testing.T) {
	fallback := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	plus2 := time.FixedZone("", 2*60*60)
	minus5 := time.FixedZone("", -5*60*60)

	tests := []struct {
		name     string
		fm       loomreport.Frontmatter
		expected time.Time
	}{
		{"date only", loomreport.Frontmatter{Date: "2024-05-06", Published: "2020-01-01"}, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"unpadded date", loomreport.Frontmatter{Date: "2024-5-6"}, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", loomreport.Frontmatter{Date: "2024-01-17T10:00:00+02:00"}, time.Date(2024, 1, 17, 10, 0, 0, 0, plus2)},
		{"rfc3339 utc fraction", loomreport.Frontmatter{Date: "2024-01-17T10:00:00.5Z"}, time.Date(2024, 1, 17, 10, 0, 0, 5e8, time.UTC)},
		{"lowercase t", loomreport.Frontmatter{Date: "2024-01-17t10:00:00Z"}, time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)},
		{"space then zone", loomreport.Frontmatter{Date: "2024-01-17 10:00:00+02:00"}, time.Date(2024, 1, 17, 10, 0, 0, 0, plus2)},
		{"space separated zone", loomreport.Frontmatter{Date: "2024-01-17 10:00:00 +02:00"}, time.Date(2024, 1, 17, 10, 0, 0, 0, plus2)},
		{"space separated z", loomreport.Frontmatter{Date: "2024-01-17 10:00:00 Z"}, time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)},
		{"short zone", loomreport.Frontmatter{Date: "2001-12-14 21:59:43.10 -05"}, time.Date(2001, 12, 14, 21, 59, 43, 1e8, minus5)},
		{"local T", loomreport.Frontmatter{Date: "2024-01-17T10:00:00"}, time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)},
		{"local space", loomreport.Frontmatter{Date: "2024-01-17 10:00:00"}, time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)},
		{"published", loomreport.Frontmatter{Published: "2020-01-01T10:00:00Z"}, time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"absent", loomreport.Frontmatter{}, fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDate(tt.fm, fallback)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestResolveDateRejectsUnparseable(t *testing.T) {
	fallback := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := ResolveDate(loomreport.Frontmatter{Date: "next tuesday", Published: "2020-01-01"}, fallback)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next tuesday")

	_, err = ResolveDate(loomreport.Frontmatter{Published: "soon"}, fallback)
	assert.Error(t, err)
}

func TestLoadKeepsZonedYAMLDates(t *testing.T) {
	repo := NewFS(fstest.MapFS{
		"2024/01/17-a.md": {Data: []byte("---\ntitle: A\ndate: 2024-01-17 10:00:00 +02:00\n---\nBody\n")},
		"2024/01/20-b.md": {Data: []byte("---\ntitle: B\ndate: 2024-01-20\n---\nBody\n")},
	}, "src/posts")
	repo.now = fixedNow(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	posts, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "B", posts[0].Title)
	assert.True(t, time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC).Equal(posts[1].Date), "got %s", posts[1].Date)
}

func TestLoadRejectsUnparseableDate(t *testing.T) {
	repo := NewFS(fstest.MapFS{
		"2024/01/17-a.md": {Data: []byte("---\ntitle: A\ndate: last week\n---\nBody\n")},
	}, "src/posts")

	_, err := repo.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, loomreport.ErrFilesystem)
	assert.Contains(t, err.Error(), "2024/01/17-a.md")
}

func TestSaveRejectsUnparseableDate(t *testing.T) {
	repo := New(t.TempDir())
	_, err := repo.Save(loomreport.Frontmatter{Title: "Looms", Date: "someday"}, "body")
	assert.ErrorIs(t, err, loomreport.ErrMisuse)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
