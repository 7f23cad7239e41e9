package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/loomreport"
)

type sentMail struct {
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Headers map[string]string `json:"headers"`
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "TheLoomReport", DisplayName("TheLoomReport <digest@theloomreport.com>"))
	assert.Equal(t, "The Loom", DisplayName(`"The Loom" <a@b.c>`))
	assert.Equal(t, "a@b.c", DisplayName("a@b.c"))
}

func TestNewSendGridRequiresKey(t *testing.T) {
	_, err := NewSendGrid(" ")
	assert.ErrorIs(t, err, loomreport.ErrMissingConfiguration)
}

func TestSendGridSend(t *testing.T) {
	var got sentMail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewSendGrid("sg-key", WithHost(srv.URL))
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{
		From:    "TheLoomReport <digest@theloomreport.com>",
		To:      []string{"a@x.com", "b@x.com"},
		Subject: "TheLoomReport Digest — Oct 5 – Oct 12, 2026",
		HTML:    "<p>hi</p>",
		Text:    "hi",
		Headers: map[string]string{"List-Unsubscribe": "<https://theloomreport.page/unsubscribe>"},
	})
	require.NoError(t, err)

	assert.Equal(t, "digest@theloomreport.com", got.From.Email)
	assert.Equal(t, "TheLoomReport", got.From.Name)
	assert.Equal(t, "TheLoomReport Digest — Oct 5 – Oct 12, 2026", got.Subject)
	require.Len(t, got.Personalizations, 2)
	assert.Equal(t, "a@x.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "b@x.com", got.Personalizations[1].To[0].Email)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "text/html", got.Content[1].Type)
	assert.Equal(t, "<https://theloomreport.page/unsubscribe>", got.Headers["List-Unsubscribe"])
}

func TestSendGridSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	sender, err := NewSendGrid("sg-key", WithHost(srv.URL))
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{From: "a@b.c", To: []string{"x@y.z"}, HTML: "<p/>"})
	require.Error(t, err)
	assert.ErrorIs(t, err, loomreport.ErrUpstream)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridSendValidatesInput(t *testing.T) {
	sender, err := NewSendGrid("sg-key", WithHost("http://127.0.0.1:0"))
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{From: "a@b.c"})
	assert.ErrorIs(t, err, loomreport.ErrMisuse)

	err = sender.Send(context.Background(), Message{From: "not an address", To: []string{"x@y.z"}})
	assert.ErrorIs(t, err, loomreport.ErrMisuse)
}
