package services_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blossom2016/stripeConnect/models"

	"github.com/stripe/stripe-go/v80"
)

// fakePlatform records calls instead of talking to Stripe.
type fakePlatform struct {
	mu           sync.Mutex
	accountCalls int32
	linkCalls    int32
	sessionCalls int32

	accountErr error
	linkErr    error
	sessionErr error
	nextAcct   func() string

	lastLink    [3]string
	lastSession models.CheckoutRequest
}

func (f *fakePlatform) CreateExpressAccount(ctx context.Context) (string, error) {
	n := atomic.AddInt32(&f.accountCalls, 1)
	if f.accountErr != nil {
		return "", f.accountErr
	}
	if f.nextAcct != nil {
		return f.nextAcct(), nil
	}
	if n == 1 {
		return "acct_new", nil
	}
	return "acct_other", nil
}

func (f *fakePlatform) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	atomic.AddInt32(&f.linkCalls, 1)
	if f.linkErr != nil {
		return "", f.linkErr
	}
	f.mu.Lock()
	f.lastLink = [3]string{accountID, refreshURL, returnURL}
	f.mu.Unlock()
	return "https://connect.stripe.com/setup/e/" + accountID, nil
}

func (f *fakePlatform) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	atomic.AddInt32(&f.sessionCalls, 1)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	f.mu.Lock()
	f.lastSession = req
	f.mu.Unlock()
	return &models.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (f *fakePlatform) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(ctx context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Text)
	}
	return out
}
