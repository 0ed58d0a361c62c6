package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blossom2016/stripeConnect/controllers"
	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/middleware"
	"github.com/blossom2016/stripeConnect/repository"
	"github.com/blossom2016/stripeConnect/services"
	"github.com/blossom2016/stripeConnect/templates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newEngine(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	products := repository.NewMemoryProductRepo(repository.DefaultCatalog())
	vendors := repository.NewMemoryVendorRepo(nil)
	platform := services.NewStripeService("sk_test_123", "whsec_routes")
	m := metrics.NewServerMetrics()

	mc := controllers.NewMarketplaceController(
		products,
		services.NewCheckoutService(products, vendors, platform, "http://127.0.0.1:5000", log),
		services.NewOnboardingService(vendors, platform, "http://127.0.0.1:5000", log),
		log,
	)
	wc := controllers.NewWebhookController(
		services.NewWebhookService(platform, repository.NewMemoryEventRepo(), nil, time.Second, m, log),
		log,
	)

	tmpl, err := templates.Load()
	assert.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	RegisterMarketplaceRoutes(r, mc, wc, limiter)
	RegisterOpsRoutes(r, m)
	return r
}

func TestRoutes_Mounted(t *testing.T) {
	r := newEngine(t, nil)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/success", http.StatusOK},
		{http.MethodGet, "/cancel", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/buy/999", http.StatusNotFound},
		{http.MethodGet, "/buy/1", http.StatusBadRequest},
		{http.MethodGet, "/vendor-onboarded/v3", http.StatusNotFound},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, req)
		assert.Equal(t, tc.status, recorder.Code, tc.path)
	}
}

func TestRoutes_WebhookRejectsUnsigned(t *testing.T) {
	r := newEngine(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"id":"evt_1","type":"checkout.session.completed"}`))
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid signature"}`, recorder.Body.String())
}

func TestRoutes_WebhookNotRateLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newEngine(t, middleware.NewRateLimiter(ctx, rate.Every(time.Hour), 1, time.Minute))

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	}

	codes := []int{}
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/success", nil)
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, req)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
