package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/pointmarket/pkg/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebhookSender_PostsJSON(t *testing.T) {
	got := make(chan notifier.Message, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var msg notifier.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		got <- msg
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.URL, time.Second, discardLogger())
	err := sender.Send(context.Background(), notifier.Message{
		Channel:   notifier.ChannelDirect,
		Recipient: "seller",
		Event:     "Listing.Purchased",
		Text:      "sold",
	})
	require.NoError(t, err)

	msg := <-got
	assert.Equal(t, "seller", msg.Recipient)
	assert.Equal(t, "sold", msg.Text)
}

func TestWebhookSender_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.URL, time.Second, discardLogger())
	err := sender.Send(context.Background(), notifier.Message{Text: "x"})
	assert.ErrorContains(t, err, "502")
}

func TestWebhookSender_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.URL, 20*time.Millisecond, discardLogger())
	assert.Error(t, sender.Send(context.Background(), notifier.Message{Text: "x"}))
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(discardLogger()).Send(context.Background(), notifier.Message{Text: "hi"}))
}
