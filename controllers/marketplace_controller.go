package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/repository"
	"github.com/blossom2016/stripeConnect/services"
	"github.com/blossom2016/stripeConnect/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	paymentSucceededText = "✅ Payment completed successfully!"
	paymentCanceledText  = "❌ Payment canceled."
)

// MarketplaceController serves the browser-facing storefront routes.
type MarketplaceController struct {
	products   repository.ProductRepository
	checkout   services.CheckoutService
	onboarding services.OnboardingService
	logger     *zap.Logger
}

func NewMarketplaceController(
	products repository.ProductRepository,
	checkout services.CheckoutService,
	onboarding services.OnboardingService,
	logger *zap.Logger,
) *MarketplaceController {
	return &MarketplaceController{
		products:   products,
		checkout:   checkout,
		onboarding: onboarding,
		logger:     logger,
	}
}

// Home renders the catalog page.
func (mc *MarketplaceController) Home(c *gin.Context) {
	products, err := mc.products.List(c.Request.Context())
	if err != nil {
		respondText(c, mc.logger, apperrors.New(http.StatusInternalServerError, "Error loading catalog", err))
		return
	}
	c.HTML(http.StatusOK, templates.Catalog, gin.H{"Products": products})
}

// OnboardVendor redirects the vendor to a fresh hosted onboarding link.
// It is also the refresh_url Stripe sends expired links back to.
func (mc *MarketplaceController) OnboardVendor(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	link, err := mc.onboarding.Onboard(c.Request.Context(), vendorID)
	if err != nil {
		mc.logger.Error("Vendor onboarding failed", zap.String("vendor_id", vendorID), zap.Error(err))
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Redirect(http.StatusFound, link)
}

// VendorOnboarded is the return_url after the hosted onboarding flow.
func (mc *MarketplaceController) VendorOnboarded(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	accountID, err := mc.onboarding.Status(c.Request.Context(), vendorID)
	if err != nil {
		respondText(c, mc.logger, err)
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("Vendor %s onboarded with Stripe Account ID: %s", vendorID, accountID))
}

// Buy creates a checkout session and sends the buyer to the hosted page.
func (mc *MarketplaceController) Buy(c *gin.Context) {
	sess, err := mc.checkout.CreateCheckout(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code >= http.StatusInternalServerError {
			mc.logger.Error("Checkout failed", zap.String("product_id", c.Param("product_id")), zap.Error(err))
			c.String(appErr.Code, appErr.Error())
			return
		}
		respondText(c, mc.logger, err)
		return
	}
	c.Redirect(http.StatusSeeOther, sess.URL)
}

func (mc *MarketplaceController) Success(c *gin.Context) {
	c.String(http.StatusOK, paymentSucceededText)
}

func (mc *MarketplaceController) Cancel(c *gin.Context) {
	c.String(http.StatusOK, paymentCanceledText)
}
