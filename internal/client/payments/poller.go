// Package payments starts checkouts and confirms them after the user
// returns from the external payment page.
package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

var (
	ErrPollTimeout    = errors.New("payment still pending")
	ErrPollError      = errors.New("payment status check failed")
	ErrPaymentFailed  = errors.New("payment was not completed")
	ErrInvalidReturn  = errors.New("payment return without checkout session")
	ErrUnknownPackage = errors.New("unknown package")
)

// StatusAPI reads the status of a checkout session.
type StatusAPI interface {
	PaymentStatus(ctx context.Context, sessionID string) (models.PaymentStatus, error)
}

// Policy bounds the poll loop.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultPolicy() Policy {
	return Policy{Interval: 2 * time.Second, MaxAttempts: 5}
}

// Kind is the state of a poll. Checking is the only non-terminal one.
type Kind int

const (
	KindChecking Kind = iota
	KindSuccess
	KindTimeout
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTimeout:
		return "timeout"
	case KindError:
		return "error"
	}
	return "checking"
}

// Outcome is the result of Poll. A Checking outcome is only returned when
// the poll was cancelled; Err then holds the context error.
type Outcome struct {
	Kind      Kind
	PackageID models.PackageID
	Attempts  int
	Err       error
}

func (o Outcome) Terminal() bool { return o.Kind != KindChecking }

// Poller polls one checkout session until it settles.
type Poller struct {
	api    StatusAPI
	policy Policy
	log    logging.Logger

	// OnAttempt, when set, observes every answered request.
	OnAttempt func(attempt int, st models.PaymentStatus)
}

func NewPoller(api StatusAPI, policy Policy, log logging.Logger) *Poller {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if policy.Interval < 0 {
		policy.Interval = 0
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Poller{api: api, policy: policy, log: log}
}

// Poll asks for the status of sessionID up to MaxAttempts times, waiting
// Interval between non-terminal answers. Requests are strictly sequential.
//
// "paid" ends with Success. A failed or expired session, a transport error
// or a non-2xx answer ends with Error and no further request. Running out
// of attempts ends with Timeout, which means "still pending".
//
// Cancelling ctx stops the loop before the next request; a request already
// in flight completes but its answer is dropped.
func (p *Poller) Poll(ctx context.Context, sessionID string) Outcome {
	log := p.log.With("attempts_max", p.policy.MaxAttempts)

	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{Kind: KindChecking, Attempts: attempt - 1, Err: err}
		}

		st, err := p.api.PaymentStatus(context.WithoutCancel(ctx), sessionID)
		if ctx.Err() != nil {
			return Outcome{Kind: KindChecking, Attempts: attempt, Err: ctx.Err()}
		}
		if err != nil {
			log.Warn(ctx, "payment status request failed", "attempt", attempt, "error", err)
			return Outcome{Kind: KindError, Attempts: attempt, Err: fmt.Errorf("%w: %w", ErrPollError, err)}
		}
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, st)
		}

		switch {
		case st.Paid():
			log.Info(ctx, "payment confirmed", "attempt", attempt, "package_id", st.PackageID)
			return Outcome{Kind: KindSuccess, PackageID: st.PackageID, Attempts: attempt}
		case st.Failed():
			return Outcome{Kind: KindError, PackageID: st.PackageID, Attempts: attempt,
				Err: fmt.Errorf("%w: %w (%s/%s)", ErrPollError, ErrPaymentFailed, st.Status, st.PaymentStatus)}
		}

		if attempt == p.policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.policy.Interval); err != nil {
			return Outcome{Kind: KindChecking, Attempts: attempt, Err: err}
		}
	}

	log.Info(ctx, "payment still pending after polling")
	return Outcome{Kind: KindTimeout, Attempts: p.policy.MaxAttempts, Err: ErrPollTimeout}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
