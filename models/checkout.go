package models

// CheckoutSession is the subset of a hosted Stripe Checkout Session the service needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutRequest describes a single-item checkout with a platform fee split.
type CheckoutRequest struct {
	ProductName          string
	UnitAmount           int64
	Currency             string
	ApplicationFeeAmount int64
	DestinationAccountID string
	SuccessURL           string
	CancelURL            string
}
