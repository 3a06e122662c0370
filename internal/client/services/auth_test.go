package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/client"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/repositories/metadata"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---- fakes ----

type fakeCredentials struct {
	user      models.User
	err       error
	lastEmail string
	lastName  string
	lastPass  string
}

func (f *fakeCredentials) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	f.lastEmail, f.lastPass = email, string(password)
	return f.user, f.err
}

func (f *fakeCredentials) Signup(ctx context.Context, email, name string, password []byte) (models.User, error) {
	f.lastEmail, f.lastName, f.lastPass = email, name, string(password)
	return f.user, f.err
}

type fakeStatusAPI struct{ logoutErr error }

func (f *fakeStatusAPI) Me(ctx context.Context) (models.User, error) {
	return models.User{}, client.ErrUnauthorized
}

func (f *fakeStatusAPI) Logout(ctx context.Context) error { return f.logoutErr }

type fakeCookies struct {
	cleared int
	err     error
}

func (f *fakeCookies) Clear(ctx context.Context) error {
	f.cleared++
	return f.err
}

var kari = models.User{ID: "user_1", Email: "kari@example.no", Name: "Kari"}

func newAuth(t *testing.T, creds *fakeCredentials, status *fakeStatusAPI, cookies *fakeCookies) (AuthService, *auth.StatusCache, metadata.Repository) {
	t.Helper()
	meta := metadata.NewSQLiteRepository(setupDB(t))
	cache := auth.NewStatusCache(status, nil)
	return NewAuthService(creds, cache, cookies, meta, nil), cache, meta
}

// ---- tests ----

func TestLogin_HandsOffAndRemembersUser(t *testing.T) {
	creds := &fakeCredentials{user: kari}
	svc, cache, _ := newAuth(t, creds, &fakeStatusAPI{}, &fakeCookies{})
	ctx := context.Background()

	u, err := svc.Login(ctx, "kari@example.no", []byte("hemmelig"))
	require.NoError(t, err)
	assert.Equal(t, kari, u)
	assert.Equal(t, "hemmelig", creds.lastPass)

	got, ok := cache.State().User()
	require.True(t, ok)
	assert.Equal(t, "user_1", got.ID)

	last, ok, err := svc.LastSignIn(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, kari, last.User)
	assert.WithinDuration(t, time.Now(), last.At, time.Minute)
}

func TestSignup_PassesName(t *testing.T) {
	creds := &fakeCredentials{user: kari}
	svc, cache, _ := newAuth(t, creds, &fakeStatusAPI{}, &fakeCookies{})

	_, err := svc.Signup(context.Background(), "kari@example.no", "Kari", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "Kari", creds.lastName)
	assert.True(t, cache.State().IsAuthenticated())
}

func TestLogin_FailureKeepsState(t *testing.T) {
	creds := &fakeCredentials{err: client.ErrUnauthorized}
	svc, cache, _ := newAuth(t, creds, &fakeStatusAPI{}, &fakeCookies{})

	_, err := svc.Login(context.Background(), "kari@example.no", []byte("wrong"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, cache.State().Resolved())

	_, ok, err := svc.LastSignIn(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_ClearsEverythingEvenWhenServerFails(t *testing.T) {
	creds := &fakeCredentials{user: kari}
	status := &fakeStatusAPI{logoutErr: client.ErrUnavailable}
	cookies := &fakeCookies{}
	svc, cache, meta := newAuth(t, creds, status, cookies)
	ctx := context.Background()

	_, err := svc.Login(ctx, kari.Email, []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, meta.Set(ctx, "prefs.theme", []byte("dark")))

	err = svc.Logout(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)

	assert.Equal(t, auth.StatusAnonymous, cache.State().Status())
	assert.Equal(t, 1, cookies.cleared)

	_, ok, err := svc.LastSignIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := meta.Get(ctx, "prefs.theme")
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), v, "non-session keys survive")
}

func TestLogout_JoinsLocalErrors(t *testing.T) {
	cookies := &fakeCookies{err: errors.New("disk full")}
	svc, _, _ := newAuth(t, &fakeCredentials{}, &fakeStatusAPI{}, cookies)

	err := svc.Logout(context.Background())
	require.ErrorContains(t, err, "clear cookies: disk full")
}
