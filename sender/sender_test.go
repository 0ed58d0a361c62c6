package sender_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/models"
	"github.com/blossom2016/stripeConnect/sender"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChatSender_Posts(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := sender.NewChatSender(srv.URL, time.Second, zap.NewNop())
	err := s.Notify(context.Background(), models.Notification{Text: "hello"})

	assert.NoError(t, err)
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "Marketplace Bot", got["username"])
	assert.Equal(t, ":moneybag:", got["icon_emoji"])
}

func TestChatSender_Unconfigured(t *testing.T) {
	s := sender.NewChatSender("", time.Second, zap.NewNop())

	assert.False(t, s.Enabled())
	assert.NoError(t, s.Notify(context.Background(), models.Notification{Text: "hello"}))
}

func TestChatSender_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	s := sender.NewChatSender(srv.URL, time.Second, zap.NewNop())
	err := s.Notify(context.Background(), models.Notification{Text: "hello"})

	assert.ErrorContains(t, err, "403")
	assert.ErrorContains(t, err, "invalid_token")
}

func TestChatSender_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s := sender.NewChatSender(srv.URL, 50*time.Millisecond, zap.NewNop())
	err := s.Notify(context.Background(), models.Notification{Text: "hello"})

	assert.Error(t, err)
}

type fakePublisher struct {
	topic   string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, topicArn string, message []byte) error {
	f.topic = topicArn
	f.message = message
	return f.err
}

func TestSNSSender_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s := sender.NewSNSSender(pub, "arn:topic")

	err := s.Notify(context.Background(), models.Notification{Text: "paid", EventID: "evt_1"})
	assert.NoError(t, err)
	assert.Equal(t, "arn:topic", pub.topic)

	var n models.Notification
	assert.NoError(t, json.Unmarshal(pub.message, &n))
	assert.Equal(t, "paid", n.Text)
	assert.Equal(t, "evt_1", n.EventID)
}

type stubNotifier struct {
	name  string
	err   error
	calls int
}

func (s *stubNotifier) Name() string { return s.name }
func (s *stubNotifier) Notify(ctx context.Context, n models.Notification) error {
	s.calls++
	return s.err
}

func TestFanout_ContinuesAfterFailure(t *testing.T) {
	m := metrics.NewServerMetrics()
	bad := &stubNotifier{name: "chat", err: errors.New("connection refused")}
	good := &stubNotifier{name: "sns"}
	f := sender.NewFanout(zap.NewNop(), m, bad, good)

	err := f.Notify(context.Background(), models.Notification{Text: "x"})

	assert.ErrorContains(t, err, "chat: connection refused")
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("chat", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sns", "sent")))
}

func TestFanout_NoSinks(t *testing.T) {
	f := sender.NewFanout(zap.NewNop(), nil)

	assert.NoError(t, f.Notify(context.Background(), models.Notification{Text: "x"}))
}
