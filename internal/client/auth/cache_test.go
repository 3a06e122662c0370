package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mitteie/internal/client/client"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

var kari = models.User{ID: "user_1", Email: "kari@example.no", Name: "Kari"}

func TestResolve_AuthenticatedFromServer(t *testing.T) {
	api := &fakeAPI{meUser: kari}
	c := NewStatusCache(api, nil)
	require.Equal(t, StatusUnknown, c.State().Status())

	st, err := c.Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, st.IsAuthenticated())
	u, ok := st.User()
	require.True(t, ok)
	assert.Equal(t, "user_1", u.ID)

	// cached: no second request
	_, err = c.Resolve(context.Background())
	require.NoError(t, err)
	me, _, _ := api.counts()
	assert.Equal(t, 1, me)
}

func TestResolve_FailuresMeanAnonymous(t *testing.T) {
	for _, err := range []error{
		&client.StatusError{Code: 401},
		&client.StatusError{Code: 403},
		&client.StatusError{Code: 500},
		errors.New("connection refused"),
	} {
		c := NewStatusCache(&fakeAPI{meErr: err}, nil)
		st, rerr := c.Resolve(context.Background())
		require.NoError(t, rerr, "anonymous is a state, not an error")
		assert.Equal(t, StatusAnonymous, st.Status())
		_, ok := st.User()
		assert.False(t, ok)
	}
}

func TestResolve_AdoptsHandoffWithoutRequest(t *testing.T) {
	api := &fakeAPI{meErr: errors.New("must not be called")}
	c := NewStatusCache(api, nil)

	c.Handoff(kari)
	st, err := c.Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, st.IsAuthenticated())
	me, _, _ := api.counts()
	assert.Zero(t, me)
}

func TestResolve_ConcurrentCallersShareOneRequest(t *testing.T) {
	api := &fakeAPI{meUser: kari, gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := NewStatusCache(api, nil)

	const n = 8
	results := make([]AuthState, n)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Resolve(context.Background())
	}()
	<-api.started

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Resolve(context.Background())
		}(i)
	}
	// give the joiners time to attach to the in-flight check
	time.Sleep(50 * time.Millisecond)
	close(api.gate)
	wg.Wait()

	me, _, _ := api.counts()
	assert.Equal(t, 1, me)
	for _, st := range results {
		assert.Equal(t, StatusAuthenticated, st.Status())
		assert.True(t, st.Resolved(), "never Unknown after Resolve returns")
	}
}

func TestResolve_HandoffDuringCheckWins(t *testing.T) {
	api := &fakeAPI{meErr: &client.StatusError{Code: 401}, gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := NewStatusCache(api, nil)

	done := make(chan AuthState, 1)
	go func() {
		st, _ := c.Resolve(context.Background())
		done <- st
	}()
	<-api.started
	c.Handoff(kari)
	close(api.gate)

	st := <-done
	assert.True(t, st.IsAuthenticated())
	assert.True(t, c.State().IsAuthenticated(), "late 401 must not demote the handed-off user")
}

func TestResolve_ContextCancelledStillSettles(t *testing.T) {
	api := &fakeAPI{meUser: kari, gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := NewStatusCache(api, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Resolve(ctx)
		errc <- err
	}()
	<-api.started
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	close(api.gate)
	require.Eventually(t, func() bool { return c.State().IsAuthenticated() }, time.Second, 5*time.Millisecond)
	api.mu.Lock()
	assert.False(t, api.lastCtxDone, "request context is detached from the caller")
	api.mu.Unlock()
}

func TestLogout_AlwaysAnonymous(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "server ok"},
		{name: "server down", err: client.ErrUnavailable},
		{name: "already expired", err: &client.StatusError{Code: 401}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{logoutErr: tt.err}
			c := NewStatusCache(api, nil)
			c.Handoff(kari)

			err := c.Logout(context.Background())
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, StatusAnonymous, c.State().Status())
			_, ok := c.State().User()
			assert.False(t, ok)
			_, logout, _ := api.counts()
			assert.Equal(t, 1, logout)
		})
	}
}

func TestRefresh(t *testing.T) {
	api := &fakeAPI{meUser: models.User{ID: "user_1", SubscriptionStatus: "active"}}
	c := NewStatusCache(api, nil)

	st, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, st.Status(), "no-op unless authenticated")

	c.Handoff(kari)
	st, err = c.Refresh(context.Background())
	require.NoError(t, err)
	u, _ := st.User()
	assert.True(t, u.Subscribed())

	api.meErr = client.ErrUnavailable
	st, err = c.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, st.IsAuthenticated(), "failed refresh keeps state")
}

func TestReset_StartsNewLifetime(t *testing.T) {
	api := &fakeAPI{meErr: &client.StatusError{Code: 401}}
	c := NewStatusCache(api, nil)
	st, _ := c.Resolve(context.Background())
	require.Equal(t, StatusAnonymous, st.Status())

	c.Reset()
	require.Equal(t, StatusUnknown, c.State().Status())

	api.mu.Lock()
	api.meErr = nil
	api.meUser = kari
	api.mu.Unlock()

	st, _ = c.Resolve(context.Background())
	assert.True(t, st.IsAuthenticated())
}

func TestContextInjection(t *testing.T) {
	ctx := context.Background()
	_, ok := StatusFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, StatusUnknown, StateFromContext(ctx).Status())

	c := NewStatusCache(&fakeAPI{}, nil)
	c.Handoff(kari)
	ctx = WithStatus(ctx, c)
	got, ok := StatusFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.True(t, StateFromContext(ctx).IsAuthenticated())
	assert.Equal(t, "authenticated as Kari", StateFromContext(ctx).String())
}
