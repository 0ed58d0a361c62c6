package models

import "fmt"

// Product is a catalog entry. Price is in minor currency units (cents).
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	VendorID string `json:"vendor_id"`
}

// DisplayPrice renders the price as dollars, e.g. "$20.00".
func (p Product) DisplayPrice() string {
	return FormatAmount(p.Price)
}

// FormatAmount renders an amount in cents as dollars.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
