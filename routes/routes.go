package routes

import (
	"github.com/blossom2016/stripeConnect/controllers"
	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterMarketplaceRoutes mounts the storefront pages behind the rate
// limiter. The webhook stays outside it so Stripe redeliveries are never
// throttled.
func RegisterMarketplaceRoutes(r *gin.Engine, mc *controllers.MarketplaceController, wc *controllers.WebhookController, limiter *middleware.RateLimiter) {
	browser := r.Group("/")
	if limiter != nil {
		browser.Use(middleware.RateLimitMiddleware(limiter))
	}
	browser.GET("/", mc.Home)
	browser.GET("/onboard-vendor/:vendor_id", mc.OnboardVendor)
	browser.GET("/vendor-onboarded/:vendor_id", mc.VendorOnboarded)
	browser.GET("/buy/:product_id", mc.Buy)
	browser.GET("/success", mc.Success)
	browser.GET("/cancel", mc.Cancel)

	r.POST("/webhook", wc.StripeWebhook)
}

func RegisterOpsRoutes(r *gin.Engine, m *metrics.ServerMetrics) {
	r.GET("/health", controllers.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
}
