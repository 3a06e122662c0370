package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// CheckoutAPI creates checkout sessions.
type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error)
}

// Checkout starts the purchase of a package. The server sends the payer
// back to {origin}/payment-success?session_id=...
type Checkout struct {
	api       CheckoutAPI
	states    auth.StateReader
	originURL string
}

func NewCheckout(api CheckoutAPI, states auth.StateReader, originURL string) *Checkout {
	return &Checkout{api: api, states: states, originURL: strings.TrimRight(originURL, "/")}
}

// Start returns the session whose URL the user must open to pay.
func (c *Checkout) Start(ctx context.Context, pkg models.PackageID) (models.CheckoutSession, error) {
	if !pkg.Valid() {
		return models.CheckoutSession{}, fmt.Errorf("%w: %q", ErrUnknownPackage, pkg)
	}
	if _, err := auth.RequireUser(c.states); err != nil {
		return models.CheckoutSession{}, err
	}

	s, err := c.api.CreateCheckout(ctx, models.CheckoutRequest{PackageID: pkg, OriginURL: c.originURL})
	if err != nil {
		return models.CheckoutSession{}, fmt.Errorf("create checkout: %w", err)
	}
	return s, nil
}
