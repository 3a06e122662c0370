package auth

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// fakeAPI records calls. When gate is set, Me and ExchangeSession signal
// started and then block until gate is closed.
type fakeAPI struct {
	mu sync.Mutex

	meCalls       int
	logoutCalls   int
	exchangeCalls int
	lastToken     string
	lastCtxDone   bool

	meUser    models.User
	meErr     error
	logoutErr error
	exUser    models.User
	exErr     error

	gate    chan struct{}
	started chan struct{}
}

func (f *fakeAPI) wait(ctx context.Context) {
	if f.gate == nil {
		return
	}
	if f.started != nil {
		f.started <- struct{}{}
	}
	<-f.gate
	f.mu.Lock()
	f.lastCtxDone = ctx.Err() != nil
	f.mu.Unlock()
}

func (f *fakeAPI) Me(ctx context.Context) (models.User, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meUser, f.meErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) ExchangeSession(ctx context.Context, token string) (models.User, error) {
	f.mu.Lock()
	f.exchangeCalls++
	f.lastToken = token
	f.mu.Unlock()
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exUser, f.exErr
}

func (f *fakeAPI) counts() (me, logout, exchange int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls, f.logoutCalls, f.exchangeCalls
}
