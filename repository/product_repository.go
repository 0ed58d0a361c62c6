package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/blossom2016/stripeConnect/models"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("not found")

// ProductRepository is the read-only catalog.
type ProductRepository interface {
	Get(ctx context.Context, productID string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// DefaultCatalog is the fixed demo catalog. Every product belongs to vendor v3.
func DefaultCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Handmade Mug", Price: 2000, VendorID: "v3"},
		{ID: "2", Name: "Canvas Tote Bag", Price: 1500, VendorID: "v3"},
		{ID: "3", Name: "Organic Beeswax Candle", Price: 1800, VendorID: "v3"},
		{ID: "4", Name: "Wool Knit Scarf", Price: 2500, VendorID: "v3"},
		{ID: "5", Name: "Custom Portrait Sketch", Price: 4000, VendorID: "v3"},
		{ID: "6", Name: "Leather Journal", Price: 2200, VendorID: "v3"},
		{ID: "7", Name: "Wooden Cutting Board", Price: 2700, VendorID: "v3"},
		{ID: "8", Name: "Artisan Coffee Sampler", Price: 1600, VendorID: "v3"},
		{ID: "9", Name: "Ceramic Plant Pot", Price: 1900, VendorID: "v3"},
		{ID: "10", Name: "Hand-dyed Throw Blanket", Price: 3200, VendorID: "v3"},
	}
}

type memoryProductRepo struct {
	products map[string]models.Product
	order    []string
}

// NewMemoryProductRepo builds an immutable catalog from the given products.
func NewMemoryProductRepo(products []models.Product) ProductRepository {
	r := &memoryProductRepo{products: make(map[string]models.Product, len(products))}
	for _, p := range products {
		if _, dup := r.products[p.ID]; !dup {
			r.order = append(r.order, p.ID)
		}
		r.products[p.ID] = p
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		a, errA := strconv.Atoi(r.order[i])
		b, errB := strconv.Atoi(r.order[j])
		if errA != nil || errB != nil {
			return r.order[i] < r.order[j]
		}
		return a < b
	})
	return r
}

func (r *memoryProductRepo) Get(ctx context.Context, productID string) (*models.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryProductRepo) List(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}
