package ultramsg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/pkg/middleware/requestid"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status models.DeliveryStatus
		msg    string
	}{
		{"sent bool", `{"sent":true,"message":"ok","id":1}`, models.DeliverySent, ""},
		{"sent string", `{"sent":"true","message":"ok"}`, models.DeliverySent, ""},
		{"invalid number", `{"sent":"false","message":"Invalid WhatsApp number"}`, models.DeliveryInvalidNumber, "Invalid WhatsApp number"},
		{"limit", `{"sent":false,"message":"Daily LIMIT reached"}`, models.DeliveryLimitReached, "Daily LIMIT reached"},
		{"other failure", `{"sent":false,"message":"instance offline"}`, models.DeliveryFailed, "instance offline"},
		{"empty failure", `{"sent":false}`, models.DeliveryFailed, "Failed to send WhatsApp message"},
		{"legacy limit", `{"error":"message limit exceeded"}`, models.DeliveryLimitReached, "message limit exceeded"},
		{"legacy error", `{"error":"Wrong token"}`, models.DeliveryFailed, "Wrong token"},
		{"legacy error list", `{"error":[{"token":"missing"}]}`, models.DeliveryFailed, `[{"token":"missing"}]`},
		{"unknown", `{"status":"queued"}`, models.DeliveryFailed, "Unknown response from WhatsApp API"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Decode([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.status, out.Status)
			assert.Equal(t, tc.msg, out.Message)
		})
	}

	_, err := Decode([]byte("<html>bad gateway</html>"))
	assert.Error(t, err)
}

func TestSendChat(t *testing.T) {
	var got chatRequest
	var path, reqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		reqID = r.Header.Get(requestid.Header)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"sent":"true","message":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", InstanceID: "instance42", Token: "tok"}, srv.Client())
	require.True(t, c.Configured())

	ctx := requestid.WithContext(context.Background(), "req-9")
	out, err := c.SendChat(ctx, "212612345678", "hello")
	require.NoError(t, err)
	assert.Equal(t, models.DeliverySent, out.Status)
	assert.Equal(t, "/instance42/messages/chat", path)
	assert.Equal(t, chatRequest{Token: "tok", To: "212612345678", Body: "hello"}, got)
	assert.Equal(t, "req-9", reqID)
}

func TestSendChatTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL, InstanceID: "i", Token: "t"}, nil)
	_, err := c.SendChat(context.Background(), "212612345678", "hello")
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.False(t, New(Config{InstanceID: "i"}, nil).Configured())
	var c *Client
	assert.False(t, c.Configured())
}
