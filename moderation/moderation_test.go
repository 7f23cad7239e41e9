package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/cache"
	"github.com/eringen/loomreport/gemini"
)

type fakeChatter struct {
	responses []string
	err       error
	calls     []gemini.ChatRequest
}

func (f *fakeChatter) Chat(_ context.Context, req gemini.ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func TestAssertSafeBlocksFlaggedContent(t *testing.T) {
	chat := &fakeChatter{responses: []string{`{"flagged": true, "categories": ["hate/threatening"]}`}}
	gate := NewGate(chat)

	res, err := gate.AssertSafe(context.Background(), "some text", "article-body")
	require.Error(t, err)
	assert.ErrorIs(t, err, loomreport.ErrContentBlocked)
	assert.Contains(t, err.Error(), "hate/threatening")
	assert.Equal(t, "moderation failed for article-body: hate/threatening", err.Error())
	require.NotNil(t, res)
	assert.True(t, res.Flagged)
}

func TestAssertSafePassesCleanContent(t *testing.T) {
	chat := &fakeChatter{responses: []string{`{"flagged": false, "categories": []}`}}
	gate := NewGate(chat)

	res, err := gate.AssertSafe(context.Background(), "hello", "title")
	require.NoError(t, err)
	assert.False(t, res.Flagged)
	assert.Empty(t, res.Categories)
}

func TestAssertSafeUnknownIssue(t *testing.T) {
	chat := &fakeChatter{responses: []string{`{"flagged": true, "categories": ["spam"]}`}}
	gate := NewGate(chat)

	_, err := gate.AssertSafe(context.Background(), "x", "description")
	require.Error(t, err)
	assert.Equal(t, "moderation failed for description: unknown issue", err.Error())
}

func TestModerateFiltersToKnownCategories(t *testing.T) {
	chat := &fakeChatter{responses: []string{"```json\n" + `{"flagged": true, "categories": ["sexual/minors", "made-up", "harassment/threatening"], "rationale": "r"}` + "\n```"}}
	gate := NewGate(chat)

	res, err := gate.Moderate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"harassment/threatening", "sexual/minors"}, res.Categories)
	assert.JSONEq(t, `{"flagged": true, "categories": ["sexual/minors", "made-up", "harassment/threatening"], "rationale": "r"}`, string(res.Raw))
}

func TestModerateFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		resp string
	}{
		{"not json", "looks fine to me"},
		{"array", `[{"flagged": false}]`},
		{"missing flagged", `{"categories": []}`},
		{"flagged wrong type", `{"flagged": "no", "categories": []}`},
		{"truncated", `{"flagged": false,`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(&fakeChatter{responses: []string{tt.resp}})
			_, err := gate.AssertSafe(context.Background(), "x", "ctx")
			require.Error(t, err)
			assert.ErrorIs(t, err, loomreport.ErrMalformedModelOutput)
		})
	}
}

func TestModerateSendsFixedPrompt(t *testing.T) {
	chat := &fakeChatter{responses: []string{`{"flagged": false, "categories": []}`}}
	gate := NewGate(chat)

	_, err := gate.Moderate(context.Background(), "the text")
	require.NoError(t, err)

	require.Len(t, chat.calls, 1)
	req := chat.calls[0]
	assert.Equal(t, gemini.FormatJSON, req.Format)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, gemini.RoleSystem, req.Messages[0].Role)
	for _, c := range Categories {
		assert.Contains(t, req.Messages[0].Content, c)
	}
	assert.Contains(t, req.Messages[1].Content, `"""the text"""`)
}

func TestModeratePropagatesChatError(t *testing.T) {
	boom := errors.New("boom")
	gate := NewGate(&fakeChatter{err: boom})

	_, err := gate.Moderate(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestModerateUsesCache(t *testing.T) {
	chat := &fakeChatter{responses: []string{`{"flagged": false, "categories": []}`}}
	gate := NewGate(chat, WithCache(cache.NewMemoryCache(), time.Hour))

	for i := 0; i < 3; i++ {
		_, err := gate.Moderate(context.Background(), "same text")
		require.NoError(t, err)
	}
	assert.Len(t, chat.calls, 1)

	_, err := gate.Moderate(context.Background(), "other text")
	require.NoError(t, err)
	assert.Len(t, chat.calls, 2)
}

func TestModerateDoesNotCacheParseFailures(t *testing.T) {
	chat := &fakeChatter{responses: []string{"nope", `{"flagged": false, "categories": []}`}}
	gate := NewGate(chat, WithCache(cache.NewMemoryCache(), time.Hour))

	_, err := gate.Moderate(context.Background(), "x")
	require.Error(t, err)

	res, err := gate.Moderate(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, res.Flagged)
	assert.Len(t, chat.calls, 2)
}
