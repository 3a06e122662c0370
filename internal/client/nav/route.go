package nav

import (
	"strings"

	"github.com/dmitrijs2005/mitteie/internal/common"
)

// Route names the view that handles a location.
type Route int

const (
	RouteNotFound Route = iota
	RouteSessionCallback
	RouteHome
	RouteLogin
	RouteSignup
	RouteDashboard
	RouteExport
	RouteSubscription
	RouteImport
	RoutePaymentReturn
)

var routeNames = map[Route]string{
	RouteNotFound:        "not-found",
	RouteSessionCallback: "session-callback",
	RouteHome:            "home",
	RouteLogin:           "login",
	RouteSignup:          "signup",
	RouteDashboard:       "dashboard",
	RouteExport:          "export",
	RouteSubscription:    "subscription",
	RouteImport:          "import",
	RoutePaymentReturn:   "payment-return",
}

func (r Route) String() string { return routeNames[r] }

// Gated reports whether the view needs a resolved auth state before it
// may act.
func (r Route) Gated() bool {
	switch r {
	case RouteDashboard, RouteExport, RouteSubscription, RouteImport, RoutePaymentReturn:
		return true
	}
	return false
}

var byPath = map[string]Route{
	PathHome:           RouteHome,
	PathLogin:          RouteLogin,
	PathSignup:         RouteSignup,
	PathDashboard:      RouteDashboard,
	PathExport:         RouteExport,
	PathSubscription:   RouteSubscription,
	PathImport:         RouteImport,
	PathPaymentSuccess: RoutePaymentReturn,
}

// Resolve picks the view for loc. A fragment carrying a one-time login
// token wins over every path, so the exchange runs before any other view
// can act or navigate away.
func Resolve(loc Location) Route {
	if strings.Contains(loc.Fragment, common.SessionFragmentKey+"=") {
		return RouteSessionCallback
	}
	p := loc.Path
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if r, ok := byPath[p]; ok {
		return r
	}
	return RouteNotFound
}
