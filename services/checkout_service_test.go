package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/repository"
	"github.com/blossom2016/stripeConnect/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testDomain = "https://shop.example.com"

func newCheckoutService(platform *fakePlatform, seed map[string]string) services.CheckoutService {
	return services.NewCheckoutService(
		repository.NewMemoryProductRepo(repository.DefaultCatalog()),
		repository.NewMemoryVendorRepo(seed),
		platform,
		testDomain,
		zap.NewNop(),
	)
}

func TestApplicationFee_Catalog(t *testing.T) {
	prices := []int64{2000, 1500, 1800, 2500, 4000, 2200, 2700, 1600, 1900, 3200}
	fees := []int64{200, 150, 180, 250, 400, 220, 270, 160, 190, 320}

	for i, price := range prices {
		assert.Equal(t, fees[i], services.ApplicationFee(price), "price %d", price)
	}
}

func TestApplicationFee_Floors(t *testing.T) {
	assert.Equal(t, int64(0), services.ApplicationFee(9))
	assert.Equal(t, int64(199), services.ApplicationFee(1999))
	assert.Equal(t, int64(0), services.ApplicationFee(0))
}

func TestCreateCheckout_UnknownProduct(t *testing.T) {
	platform := &fakePlatform{}
	svc := newCheckoutService(platform, map[string]string{"v3": "acct_3"})

	sess, err := svc.CreateCheckout(context.Background(), "999")

	assert.Nil(t, sess)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	assert.Equal(t, int32(0), platform.sessionCalls)
}

func TestCreateCheckout_VendorNotOnboarded(t *testing.T) {
	platform := &fakePlatform{}
	svc := newCheckoutService(platform, nil)

	for _, p := range repository.DefaultCatalog() {
		_, err := svc.CreateCheckout(context.Background(), p.ID)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
		assert.Contains(t, apperrors.Message(err), "not onboarded")
	}
	assert.Equal(t, int32(0), platform.sessionCalls)
}

func TestCreateCheckout_Success(t *testing.T) {
	platform := &fakePlatform{}
	svc := newCheckoutService(platform, map[string]string{"v3": "acct_3"})

	sess, err := svc.CreateCheckout(context.Background(), "1")

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)

	req := platform.lastSession
	assert.Equal(t, "Handmade Mug", req.ProductName)
	assert.Equal(t, int64(2000), req.UnitAmount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, int64(200), req.ApplicationFeeAmount)
	assert.Equal(t, "acct_3", req.DestinationAccountID)
	assert.Equal(t, testDomain+"/success", req.SuccessURL)
	assert.Equal(t, testDomain+"/cancel", req.CancelURL)
}

func TestCreateCheckout_FeeForEveryProduct(t *testing.T) {
	platform := &fakePlatform{}
	svc := newCheckoutService(platform, map[string]string{"v3": "acct_3"})

	for _, p := range repository.DefaultCatalog() {
		_, err := svc.CreateCheckout(context.Background(), p.ID)
		assert.NoError(t, err)
		assert.Equal(t, p.Price/10, platform.lastSession.ApplicationFeeAmount, p.ID)
	}
}

func TestCreateCheckout_PlatformError(t *testing.T) {
	platform := &fakePlatform{sessionErr: errors.New("No such destination: acct_3")}
	svc := newCheckoutService(platform, map[string]string{"v3": "acct_3"})

	_, err := svc.CreateCheckout(context.Background(), "1")

	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "No such destination")
}
