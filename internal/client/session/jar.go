// Package session keeps the server's session cookie across CLI runs.
//
// The browser keeps the cookie set by the session exchange in its own
// store; the CLI uses PersistentJar, an http.CookieJar whose cookies for
// the inventory server are mirrored into the local metadata table. The
// one-shot callback command and a running REPL can share one session that
// way.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mitteie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mitteie/internal/dbx"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

func (c storedCookie) httpCookie() *http.Cookie {
	return &http.Cookie{
		Name: c.Name, Value: c.Value, Path: c.Path,
		Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HttpOnly,
	}
}

// PersistentJar is safe for concurrent use.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	db     *sql.DB
	server *url.URL
	log    logging.Logger
	now    func() time.Time
}

var _ http.CookieJar = (*PersistentJar)(nil)

// NewPersistentJar builds a jar for serverURL and restores the cookies saved
// by earlier runs.
func NewPersistentJar(ctx context.Context, db *sql.DB, serverURL string, log logging.Logger) (*PersistentJar, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	j := &PersistentJar{jar: jar, db: db, server: u, log: log, now: time.Now}

	saved, err := j.load(ctx, db)
	if err != nil {
		return nil, err
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		if !c.expired(j.now()) {
			cookies = append(cookies, c.httpCookie())
		}
	}
	jar.SetCookies(u, cookies)
	return j, nil
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// SetCookies stores cookies in memory and, when they come from the
// inventory server, merges them into the saved set.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	if !strings.EqualFold(u.Hostname(), j.server.Hostname()) || len(cookies) == 0 {
		return
	}

	ctx := context.Background()
	err := dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		saved, err := j.load(ctx, tx)
		if err != nil {
			return err
		}
		now := j.now()
		for _, c := range cookies {
			sc := storedCookie{
				Name: c.Name, Value: c.Value, Path: c.Path,
				Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HttpOnly,
			}
			if c.MaxAge > 0 {
				sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
			}
			if c.MaxAge < 0 || sc.expired(now) {
				delete(saved, c.Name)
				continue
			}
			saved[c.Name] = sc
		}
		return metadata.StoreJSON(ctx, metadata.NewSQLiteRepository(tx), metadata.KeyCookies, saved)
	})
	if err != nil {
		j.log.Warn(ctx, "failed to persist session cookies", "error", err)
	}
}

// Clear forgets every cookie, in memory and on disk.
func (j *PersistentJar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.jar = jar
	return metadata.NewSQLiteRepository(j.db).Delete(ctx, metadata.KeyCookies)
}

func (j *PersistentJar) load(ctx context.Context, db dbx.DBTX) (map[string]storedCookie, error) {
	saved := map[string]storedCookie{}
	if _, err := metadata.LoadJSON(ctx, metadata.NewSQLiteRepository(db), metadata.KeyCookies, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
