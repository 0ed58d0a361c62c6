package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/models"
	"github.com/blossom2016/stripeConnect/repository"

	"go.uber.org/zap"
)

const (
	checkoutCurrency = "usd"
	// platformFeePercent is the platform's cut of every sale.
	platformFeePercent = 10
)

// ApplicationFee returns floor(price * 10%) in minor units.
func ApplicationFee(price int64) int64 {
	return price * platformFeePercent / 100
}

// CheckoutService turns a product id into a hosted checkout session.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, productID string) (*models.CheckoutSession, error)
}

type checkoutServiceImpl struct {
	products repository.ProductRepository
	vendors  repository.VendorRepository
	platform PaymentPlatform
	domain   string
	logger   *zap.Logger
}

func NewCheckoutService(products repository.ProductRepository, vendors repository.VendorRepository, platform PaymentPlatform, domain string, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		products: products,
		vendors:  vendors,
		platform: platform,
		domain:   domain,
		logger:   logger,
	}
}

// CreateCheckout validates the product and its vendor before calling Stripe.
// Nothing is stored locally; the outcome arrives later through the webhook.
func (s *checkoutServiceImpl) CreateCheckout(ctx context.Context, productID string) (*models.CheckoutSession, error) {
	product, err := s.products.Get(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.New(500, "error reading catalog", err)
	}

	destination, found, err := s.vendors.Get(ctx, product.VendorID)
	if err != nil {
		return nil, apperrors.New(500, "error reading vendor registry", err)
	}
	if !found {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("Vendor %s not onboarded yet.", product.VendorID))
	}

	sess, err := s.platform.CreateCheckoutSession(ctx, models.CheckoutRequest{
		ProductName:          product.Name,
		UnitAmount:           product.Price,
		Currency:             checkoutCurrency,
		ApplicationFeeAmount: ApplicationFee(product.Price),
		DestinationAccountID: destination,
		SuccessURL:           s.domain + "/success",
		CancelURL:            s.domain + "/cancel",
	})
	if err != nil {
		s.logger.Error("Stripe checkout session creation failed",
			zap.String("product_id", productID),
			zap.String("vendor_id", product.VendorID),
			zap.Error(err),
		)
		return nil, apperrors.Upstream("Error creating checkout session", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("product_id", productID),
		zap.String("session_id", sess.ID),
	)
	return sess, nil
}
