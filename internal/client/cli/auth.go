package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/nav"
	"github.com/dmitrijs2005/mitteie/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in.
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.history.Replace(nav.At(nav.PathDashboard))
	a.notifier.Success(fmt.Sprintf("Welcome back, %s!", u.DisplayName()))
	return nil
}

// Signup creates an account and signs in with it.
func (a *App) Signup(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	u, err := a.authService.Signup(ctx, email, name, password)
	if err != nil {
		return err
	}
	a.history.Replace(nav.At(nav.PathDashboard))
	a.notifier.Success(fmt.Sprintf("Welcome, %s!", u.DisplayName()))
	return nil
}

// Logout ends the session. Local data is cleared even when the server
// cannot be reached; that case is reported as a warning only.
func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.authService.Logout(ctx)
	a.history.Replace(nav.At(nav.PathHome))
	if err != nil {
		a.notifier.Info("Signed out locally; the server could not be reached.")
		a.log.Warn(ctx, "logout incomplete", "error", err)
		return nil
	}
	a.notifier.Success("Signed out.")
	return nil
}

// Status resolves the auth state and prints it.
func (a *App) Status(ctx context.Context, _ []string) error {
	st, err := a.cache.Resolve(ctx)
	if err != nil {
		return err
	}
	u, ok := st.User()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in. Use 'login', 'signup' or open a login link.")
		return nil
	}

	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", u.DisplayName(), u.Email)
	if u.Subscribed() {
		fmt.Fprintf(a.out, "Subscription: %s\n", u.SubscriptionStatus)
	} else {
		fmt.Fprintln(a.out, "No subscription. Run 'subscribe' to unlock export and print.")
	}
	if last, ok, err := a.authService.LastSignIn(ctx); err == nil && ok && last.User.ID == u.ID {
		fmt.Fprintf(a.out, "Signed in on this machine since %s\n", last.At.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Open handles a link the way the browser client routes a URL: a login
// token in the fragment is exchanged first, a payment return is polled,
// anything else just moves the history.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: open <url>")
	}
	loc, err := nav.ParseLocation(args[0])
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}

	route := nav.Resolve(loc)
	a.log.Debug(ctx, "open", "route", route.String())

	switch route {
	case nav.RouteSessionCallback:
		_, err := a.exchanger.Exchange(ctx, loc)
		if errors.Is(err, auth.ErrAlreadyClaimed) {
			return errors.New("this login link was already used")
		}
		return notified(err)
	case nav.RouteNotFound:
		return fmt.Errorf("nothing to open at %s", loc.Path)
	}

	if route.Gated() {
		if _, err := a.ensureResolved(ctx); err != nil {
			return err
		}
	}

	switch route {
	case nav.RoutePaymentReturn:
		_, err := a.payReturn.Handle(ctx, loc)
		return notified(err)
	case nav.RouteDashboard:
		a.history.Push(loc)
		return a.List(ctx, nil)
	case nav.RouteExport:
		a.history.Push(loc)
		return a.Export(ctx, nil)
	case nav.RouteLogin:
		return a.Login(ctx, nil)
	case nav.RouteSignup:
		return a.Signup(ctx, nil)
	}
	a.history.Push(loc)
	return nil
}
