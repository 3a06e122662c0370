package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/mitteie/internal/client/attachments"
	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/client"
	"github.com/dmitrijs2005/mitteie/internal/client/config"
	"github.com/dmitrijs2005/mitteie/internal/client/export"
	"github.com/dmitrijs2005/mitteie/internal/client/items"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/nav"
	"github.com/dmitrijs2005/mitteie/internal/client/notify"
	"github.com/dmitrijs2005/mitteie/internal/client/payments"
	"github.com/dmitrijs2005/mitteie/internal/client/services"
	"github.com/dmitrijs2005/mitteie/internal/client/session"
	"github.com/dmitrijs2005/mitteie/internal/filex"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

// App is the wired client: one local store, one cookie-carrying server
// client and the components built on top of them.
type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader

	db   *sql.DB
	api  client.Client
	jar  *session.PersistentJar
	repo *client.Repositories

	history   *nav.History
	notifier  notify.Notifier
	cache     *auth.StatusCache
	exchanger *auth.Exchanger
	guard     *items.Guard
	view      *items.View
	checkout  *payments.Checkout
	payReturn *payments.Return
	uploader  *attachments.Uploader
	loader    *export.Loader

	authService  services.AuthService
	draftService services.DraftService
}

// NewApp opens the local store at cfg.DatabasePath and wires every
// component against the server at cfg.ServerURL.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	jar, err := session.NewPersistentJar(ctx, db, cfg.ServerURL, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	api := client.NewHTTPClient(cfg.ServerURL,
		client.WithHTTPClient(&http.Client{Jar: jar, Timeout: cfg.RequestTimeout}),
		client.WithLogger(log.With("component", "api")),
	)

	a := &App{
		config:   cfg,
		log:      log,
		out:      out,
		reader:   bufio.NewReader(in),
		db:       db,
		api:      api,
		jar:      jar,
		repo:     client.NewRepositories(db),
		history:  nav.NewHistory(nav.At(nav.PathHome)),
		notifier: notify.NewWriter(out),
	}
	a.history.OnMove(func(loc nav.Location) {
		log.Debug(context.Background(), "navigated", "location", loc.String())
	})

	a.cache = auth.NewStatusCache(api, log.With("component", "auth"))
	a.exchanger = auth.NewExchanger(api, a.cache, a.history, a.notifier, log.With("component", "exchange"))

	a.guard = items.NewGuard(api, a.cache, log.With("component", "items"))
	a.view = items.NewView(a.guard)

	poller := payments.NewPoller(api, payments.Policy{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollAttempts,
	}, log.With("component", "payments"))
	poller.OnAttempt = func(attempt int, st models.PaymentStatus) {
		fmt.Fprintf(out, "  checking payment (%d/%d): %s\n", attempt, cfg.PollAttempts, st.PaymentStatus)
	}
	a.checkout = payments.NewCheckout(api, a.cache, cfg.OriginURL)
	a.payReturn = payments.NewReturn(poller, a.cache, a.history, a.notifier)

	a.uploader = attachments.NewUploader(api, a.cache,
		&http.Client{Timeout: cfg.RequestTimeout}, cfg.UploadBaseURL, log.With("component", "attachments"))
	a.loader = export.NewLoader(api, a.cache)

	a.authService = services.NewAuthService(api, a.cache, jar, a.repo.Metadata, log)
	a.draftService = services.NewDraftService(a.view, a.repo.Drafts)
	return a, nil
}

// Close releases the local store.
func (a *App) Close() error {
	return a.db.Close()
}

// errNotified marks errors the user has already been told about.
var errNotified = errors.New("already reported")

func notified(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errNotified, err)
}

// report prints err unless a component already notified the user.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, errNotified) {
		return
	}
	a.notifier.Error(err.Error())
}

// ensureResolved settles an Unknown auth state before a gated action.
func (a *App) ensureResolved(ctx context.Context) (auth.AuthState, error) {
	if st := a.cache.State(); st.Resolved() {
		return st, nil
	}
	return a.cache.Resolve(ctx)
}

// isLoggedIn reports the cached state without asking the server.
func (a *App) isLoggedIn() bool {
	return a.cache.State().IsAuthenticated()
}

// getStatus renders the prompt decoration.
func (a *App) getStatus() string {
	st := a.cache.State()
	if u, ok := st.User(); ok {
		return fmt.Sprintf("(%s)", u.DisplayName())
	}
	if st.Status() == auth.StatusUnknown {
		return "(…)"
	}
	return "(signed out)"
}
