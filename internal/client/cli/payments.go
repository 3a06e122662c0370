package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// Subscribe starts the monthly subscription checkout.
func (a *App) Subscribe(ctx context.Context, _ []string) error {
	return a.startCheckout(ctx, models.PackageSubscription)
}

// BuyImport starts the one-time import checkout.
func (a *App) BuyImport(ctx context.Context, _ []string) error {
	return a.startCheckout(ctx, models.PackageImport)
}

func (a *App) startCheckout(ctx context.Context, pkg models.PackageID) error {
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}
	s, err := a.checkout.Start(ctx, pkg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Open this page to pay:\n  %s\n", s.URL)
	fmt.Fprintln(a.out, "When you are sent back, run 'return <url>' with the address you land on.")
	return nil
}
