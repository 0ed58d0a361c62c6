package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/blossom2016/stripeConnect/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorRepository maps vendor ids to connected Stripe account ids.
type VendorRepository interface {
	Get(ctx context.Context, vendorID string) (accountID string, found bool, err error)
	Put(ctx context.Context, vendorID, accountID string) error
	List(ctx context.Context) ([]models.VendorAccount, error)
}

type memoryVendorRepo struct {
	mu       sync.RWMutex
	accounts map[string]models.VendorAccount
}

// NewMemoryVendorRepo returns a process-local registry, optionally seeded.
func NewMemoryVendorRepo(seed map[string]string) VendorRepository {
	r := &memoryVendorRepo{accounts: make(map[string]models.VendorAccount, len(seed))}
	now := time.Now().UTC()
	for vendorID, accountID := range seed {
		r.accounts[vendorID] = models.VendorAccount{VendorID: vendorID, AccountID: accountID, CreatedAt: now, UpdatedAt: now}
	}
	return r
}

func (r *memoryVendorRepo) Get(ctx context.Context, vendorID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.accounts[vendorID]
	return v.AccountID, ok, nil
}

func (r *memoryVendorRepo) Put(ctx context.Context, vendorID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	v, ok := r.accounts[vendorID]
	if !ok {
		v = models.VendorAccount{VendorID: vendorID, CreatedAt: now}
	}
	v.AccountID = accountID
	v.UpdatedAt = now
	r.accounts[vendorID] = v
	return nil
}

func (r *memoryVendorRepo) List(ctx context.Context) ([]models.VendorAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.VendorAccount, 0, len(r.accounts))
	for _, v := range r.accounts {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorID < out[j].VendorID })
	return out, nil
}

type gormVendorRepo struct {
	db *gorm.DB
}

// NewGormVendorRepo stores vendor accounts in the vendor_accounts table.
func NewGormVendorRepo(db *gorm.DB) VendorRepository {
	return &gormVendorRepo{db: db}
}

func (r *gormVendorRepo) Get(ctx context.Context, vendorID string) (string, bool, error) {
	var v models.VendorAccount
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v.AccountID, true, nil
}

func (r *gormVendorRepo) Put(ctx context.Context, vendorID, accountID string) error {
	v := models.VendorAccount{VendorID: vendorID, AccountID: accountID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vendor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_id", "updated_at"}),
	}).Create(&v).Error
}

func (r *gormVendorRepo) List(ctx context.Context) ([]models.VendorAccount, error) {
	var vendors []models.VendorAccount
	if err := r.db.WithContext(ctx).Order("vendor_id").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}
