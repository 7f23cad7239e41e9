package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/loomreport"
)

func TestDecodeTopicPlan(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    TopicPlan
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"title":" Looms ","angle":"Why it matters.","tags":["AI","", "Policy"]}`,
			want: TopicPlan{Title: "Looms", Angle: "Why it matters.", Tags: []string{"AI", "Policy"}},
		},
		{
			name: "fenced object",
			raw:  "```json\n{\"title\":\"T\",\"angle\":\"A\"}\n```",
			want: TopicPlan{Title: "T", Angle: "A"},
		},
		{name: "missing angle", raw: `{"title":"T"}`, wantErr: true},
		{name: "blank title", raw: `{"title":"  ","angle":"A"}`, wantErr: true},
		{name: "array", raw: `[{"title":"T","angle":"A"}]`, wantErr: true},
		{name: "prose", raw: `Sure! Here is a topic.`, wantErr: true},
		{name: "wrong type", raw: `{"title":"T","angle":"A","tags":"ai"}`, wantErr: true},
		{name: "trailing data", raw: `{"title":"T","angle":"A"} {"x":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTopicPlan(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, loomreport.ErrMalformedModelOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMetaDescription(t *testing.T) {
	meta, err := DecodeMetaDescription(`{"description":"A look at looms.","keywords":["looms","weaving"],"hero_alt":"A loom"}`)
	require.NoError(t, err)
	assert.Equal(t, "A look at looms.", meta.Description)
	assert.Equal(t, []string{"looms", "weaving"}, meta.Keywords)
	assert.Equal(t, "A loom", meta.HeroAlt)

	_, err = DecodeMetaDescription(`{"keywords":["x"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestDecodeImagePlan(t *testing.T) {
	plan, err := DecodeImagePlan(`{"prompt":"a loom at dawn","negative_prompt":"text"}`)
	require.NoError(t, err)
	assert.Equal(t, ImagePlan{Prompt: "a loom at dawn", NegativePrompt: "text"}, plan)

	_, err = DecodeImagePlan(`{"negative_prompt":"text"}`)
	assert.ErrorIs(t, err, loomreport.ErrMalformedModelOutput)
}

func TestExcerpt(t *testing.T) {
	md := "# Heading\n\n```go\nfmt.Println(\"hi\")\n```\n> **Bold** _move_ with `code` and [link](x)"
	assert.Equal(t, "Heading\n\n\n Bold move with code and link(x)", Excerpt(md, 400))

	long := strings.Repeat("é", 500)
	assert.Equal(t, strings.Repeat("é", 400), Excerpt(long, 400))
}

func TestChooseTags(t *testing.T) {
	assert.Equal(t, []string{"ai-policy", "labor"},
		ChooseTags(TopicPlan{Tags: []string{"AI Policy", "Labor"}}, MetaDescription{Keywords: []string{"ignored"}}))
	assert.Equal(t, []string{"weaving"},
		ChooseTags(TopicPlan{}, MetaDescription{Keywords: []string{"Weaving"}}))
	assert.Equal(t, []string{"ai"}, ChooseTags(TopicPlan{Tags: []string{"!!"}}, MetaDescription{}))
}

func TestSummarizePosts(t *testing.T) {
	var posts []loomreport.Post
	for i := 0; i < 7; i++ {
		p := loomreport.Post{Date: time.Date(2026, 10, 10-i, 9, 0, 0, 0, time.UTC)}
		p.Title = "Post"
		p.Tags = []string{"ai", "labor"}
		posts = append(posts, p)
	}

	lines := strings.Split(summarizePosts(posts, 5), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "- Post (2026-10-10) — tags: ai, labor", lines[0])
	assert.Empty(t, summarizePosts(nil, 5))
}
