package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/nav"
	"github.com/dmitrijs2005/mitteie/internal/client/notify"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (auth.AuthState, error) {
	f.calls++
	return auth.Authenticated(models.User{ID: "user_1", SubscriptionStatus: "active"}), f.err
}

func newReturn(api StatusAPI) (*Return, *fakeRefresher, *nav.History, *notify.Recorder) {
	ref := &fakeRefresher{}
	h := nav.NewHistory(nav.At(nav.PathPaymentSuccess))
	notes := &notify.Recorder{}
	return NewReturn(NewPoller(api, fastPolicy(), nil), ref, h, notes), ref, h, notes
}

func parse(t *testing.T, raw string) nav.Location {
	t.Helper()
	loc, err := nav.ParseLocation(raw)
	require.NoError(t, err)
	return loc
}

func TestReturn_PaidOnFirstPoll(t *testing.T) {
	api := &scriptedAPI{steps: []step{paid}}
	r, ref, _, notes := newReturn(api)

	out, err := r.Handle(context.Background(), parse(t, "https://app.example/payment-success?session_id=xyz"))
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, out.Kind)
	assert.Equal(t, models.PackageSubscription, out.PackageID)
	assert.Equal(t, "xyz", api.lastSession)
	assert.Equal(t, 1, api.count())
	assert.Equal(t, 1, ref.calls, "caller refreshes the subscription flag")
	assert.Equal(t, notify.LevelSuccess, notes.Messages()[0].Level)
}

func TestReturn_MissingSessionGoesToDashboard(t *testing.T) {
	api := &scriptedAPI{steps: []step{paid}}
	r, ref, h, _ := newReturn(api)

	_, err := r.Handle(context.Background(), parse(t, "/payment-success"))
	require.ErrorIs(t, err, ErrInvalidReturn)
	assert.Zero(t, api.count())
	assert.Zero(t, ref.calls)
	assert.Equal(t, nav.PathDashboard, h.Current().Path)
	assert.Len(t, h.Entries(), 1)
}

func TestReturn_TimeoutAndErrorDoNotRefresh(t *testing.T) {
	r, ref, _, notes := newReturn(&scriptedAPI{steps: []step{pending}})
	out, err := r.Handle(context.Background(), parse(t, "/payment-success?session_id=xyz"))
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, KindTimeout, out.Kind)
	assert.Equal(t, notify.LevelInfo, notes.Messages()[0].Level)
	assert.Zero(t, ref.calls)

	r, ref, _, notes = newReturn(&scriptedAPI{steps: []step{{err: errors.New("502")}}})
	out, err = r.Handle(context.Background(), parse(t, "/payment-success?session_id=xyz"))
	require.ErrorIs(t, err, ErrPollError)
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, notify.LevelError, notes.Messages()[0].Level)
	assert.Zero(t, ref.calls)
}

func TestReturn_RefreshFailureStillSuccess(t *testing.T) {
	r, ref, _, _ := newReturn(&scriptedAPI{steps: []step{paid}})
	ref.err = errors.New("me failed")

	out, err := r.Handle(context.Background(), parse(t, "/payment-success?session_id=xyz"))
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, out.Kind)
}

type fakeCheckoutAPI struct {
	last  *models.CheckoutRequest
	calls int
	resp  models.CheckoutSession
	err   error
}

func (f *fakeCheckoutAPI) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error) {
	f.calls++
	f.last = &req
	return f.resp, f.err
}

type fixedState struct{ st auth.AuthState }

func (f fixedState) State() auth.AuthState { return f.st }

func TestCheckout_Start(t *testing.T) {
	api := &fakeCheckoutAPI{resp: models.CheckoutSession{URL: "https://checkout.example/cs_1", SessionID: "cs_1"}}
	signedIn := fixedState{auth.Authenticated(models.User{ID: "user_1"})}

	c := NewCheckout(api, signedIn, "https://app.example/")
	s, err := c.Start(context.Background(), models.PackageImport)
	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.SessionID)
	require.NotNil(t, api.last)
	assert.Equal(t, models.CheckoutRequest{PackageID: "import", OriginURL: "https://app.example"}, *api.last)

	_, err = c.Start(context.Background(), "gold")
	require.ErrorIs(t, err, ErrUnknownPackage)

	for _, st := range []auth.AuthState{auth.Unknown(), auth.Anonymous()} {
		_, err = NewCheckout(api, fixedState{st}, "https://app.example").Start(context.Background(), models.PackageSubscription)
		require.ErrorIs(t, err, auth.ErrAuthRequired)
	}
	assert.Equal(t, 1, api.calls)

	api.err = errors.New("stripe down")
	_, err = c.Start(context.Background(), models.PackageSubscription)
	require.ErrorContains(t, err, "create checkout")
}
