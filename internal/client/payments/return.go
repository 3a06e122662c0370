package payments

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/nav"
	"github.com/dmitrijs2005/mitteie/internal/client/notify"
	"github.com/dmitrijs2005/mitteie/internal/common"
)

// Refresher re-reads the signed-in user after a purchase.
type Refresher interface {
	Refresh(ctx context.Context) (auth.AuthState, error)
}

// Return handles the payment-success view: it reads the checkout session
// from the return URL, polls it and reports the result.
type Return struct {
	poller    *Poller
	refresher Refresher
	nav       nav.Navigator
	notifier  notify.Notifier
}

func NewReturn(p *Poller, r Refresher, n nav.Navigator, notifier notify.Notifier) *Return {
	return &Return{poller: p, refresher: r, nav: n, notifier: notifier}
}

// Handle polls the session named by the return URL's session_id. Without
// one it sends the user to the dashboard and returns ErrInvalidReturn.
// After a Success it refreshes the user so the subscription flag is
// current; the poller itself never touches auth state.
func (r *Return) Handle(ctx context.Context, loc nav.Location) (Outcome, error) {
	sessionID := loc.Query.Get(common.SessionFragmentKey)
	if sessionID == "" {
		r.nav.Replace(nav.At(nav.PathDashboard))
		return Outcome{}, ErrInvalidReturn
	}

	out := r.poller.Poll(ctx, sessionID)
	switch out.Kind {
	case KindSuccess:
		if _, err := r.refresher.Refresh(ctx); err != nil {
			r.poller.log.Warn(ctx, "user refresh after payment failed", "error", err)
		}
		r.notifier.Success(successMessage(out.PackageID))
	case KindTimeout:
		r.notifier.Info("Payment is still being processed. Check again in a moment.")
	case KindError:
		if errors.Is(out.Err, ErrPaymentFailed) {
			r.notifier.Error("The payment was not completed.")
		} else {
			r.notifier.Error("Could not check the payment status.")
		}
	}
	return out, out.Err
}

func successMessage(pkg models.PackageID) string {
	switch pkg {
	case models.PackageSubscription:
		return "Subscription active. Export and print are unlocked."
	case models.PackageImport:
		return "Import purchased. Our team will contact you."
	}
	return "Payment received."
}
