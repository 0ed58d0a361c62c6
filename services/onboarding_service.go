package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// OnboardingService connects vendors to the platform as express accounts.
type OnboardingService interface {
	Onboard(ctx context.Context, vendorID string) (onboardingURL string, err error)
	Status(ctx context.Context, vendorID string) (accountID string, err error)
}

type onboardingServiceImpl struct {
	vendors  repository.VendorRepository
	platform PaymentPlatform
	domain   string
	logger   *zap.Logger
	creating singleflight.Group
}

func NewOnboardingService(vendors repository.VendorRepository, platform PaymentPlatform, domain string, logger *zap.Logger) OnboardingService {
	return &onboardingServiceImpl{
		vendors:  vendors,
		platform: platform,
		domain:   domain,
		logger:   logger,
	}
}

// Onboard reuses the vendor's account or creates one, then returns a fresh
// hosted onboarding link scoped to the vendor.
func (s *onboardingServiceImpl) Onboard(ctx context.Context, vendorID string) (string, error) {
	accountID, err := s.ensureAccount(ctx, vendorID)
	if err != nil {
		return "", err
	}

	escaped := url.PathEscape(vendorID)
	link, err := s.platform.CreateOnboardingLink(ctx,
		accountID,
		fmt.Sprintf("%s/onboard-vendor/%s", s.domain, escaped),
		fmt.Sprintf("%s/vendor-onboarded/%s", s.domain, escaped),
	)
	if err != nil {
		s.logger.Error("Failed to create onboarding link",
			zap.String("vendor_id", vendorID),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return "", apperrors.Upstream("error creating onboarding link", err)
	}
	return link, nil
}

// ensureAccount creates at most one account per vendor even when several
// onboarding requests for it arrive at once.
func (s *onboardingServiceImpl) ensureAccount(ctx context.Context, vendorID string) (string, error) {
	accountID, found, err := s.vendors.Get(ctx, vendorID)
	if err != nil {
		return "", apperrors.New(500, "error reading vendor registry", err)
	}
	if found {
		return accountID, nil
	}

	v, err, _ := s.creating.Do(vendorID, func() (interface{}, error) {
		if id, found, err := s.vendors.Get(ctx, vendorID); err == nil && found {
			return id, nil
		}
		id, err := s.platform.CreateExpressAccount(ctx)
		if err != nil {
			s.logger.Error("Failed to create connected account", zap.String("vendor_id", vendorID), zap.Error(err))
			return "", apperrors.Upstream("error creating connected account", err)
		}
		if err := s.vendors.Put(ctx, vendorID, id); err != nil {
			return "", apperrors.New(500, "error saving vendor account", err)
		}
		s.logger.Info("Connected account created", zap.String("vendor_id", vendorID), zap.String("account_id", id))
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *onboardingServiceImpl) Status(ctx context.Context, vendorID string) (string, error) {
	accountID, found, err := s.vendors.Get(ctx, vendorID)
	if err != nil {
		return "", apperrors.New(500, "error reading vendor registry", err)
	}
	if !found {
		return "", apperrors.NotFound(fmt.Sprintf("Vendor %s not found or not onboarded.", vendorID))
	}
	return accountID, nil
}
