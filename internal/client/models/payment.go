package models

// PackageID names a purchasable package.
type PackageID string

const (
	PackageSubscription PackageID = "subscription"
	PackageImport       PackageID = "import"
)

// Packages lists every package the server sells.
var Packages = []PackageID{PackageSubscription, PackageImport}

// Valid reports whether p is a known package.
func (p PackageID) Valid() bool {
	for _, known := range Packages {
		if p == known {
			return true
		}
	}
	return false
}

// Payment status values reported by the checkout processor.
const (
	PaymentPaid     = "paid"
	PaymentUnpaid   = "unpaid"
	PaymentPending  = "pending"
	PaymentFailed   = "failed"
	CheckoutExpired = "expired"
)

// PaymentStatus is the body of GET /api/payments/status/{session_id}.
type PaymentStatus struct {
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PackageID     PackageID `json:"package_id"`
}

// Paid reports the terminal success state.
func (s PaymentStatus) Paid() bool {
	return s.PaymentStatus == PaymentPaid
}

// Failed reports a terminal failure: the processor declined the payment or
// the checkout session expired before it was paid.
func (s PaymentStatus) Failed() bool {
	return s.PaymentStatus == PaymentFailed || s.Status == CheckoutExpired
}

// CheckoutRequest is the body of POST /api/payments/checkout.
type CheckoutRequest struct {
	PackageID PackageID `json:"package_id"`
	OriginURL string    `json:"origin_url"`
}

// CheckoutSession is returned when a checkout is created.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}
