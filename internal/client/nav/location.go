// Package nav models the navigation state of the client: the current
// location with its fragment, a history stack with push and replace, and
// the earliest routing decision taken for a location.
package nav

import (
	"net/url"
	"strings"
)

// View paths.
const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathDashboard      = "/dashboard"
	PathExport         = "/export"
	PathSubscription   = "/subscription"
	PathImport         = "/import"
	PathPaymentSuccess = "/payment-success"
)

// Location is one navigation target. Fragment excludes the leading '#'.
type Location struct {
	Path     string
	Query    url.Values
	Fragment string
}

// ParseLocation accepts an absolute URL or a path with optional query and
// fragment.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, err
	}
	loc := Location{
		Path:     u.Path,
		Query:    u.Query(),
		Fragment: u.EscapedFragment(),
	}
	if loc.Path == "" {
		loc.Path = PathHome
	}
	return loc, nil
}

// At returns a bare location for path.
func At(path string) Location {
	return Location{Path: path, Query: url.Values{}}
}

// FragmentValues parses the fragment as a query string.
func (l Location) FragmentValues() url.Values {
	v, _ := url.ParseQuery(strings.TrimPrefix(l.Fragment, "#"))
	if v == nil {
		v = url.Values{}
	}
	return v
}

// String renders the location without its fragment. The fragment may carry
// a one-time token and is never rendered.
func (l Location) String() string {
	s := l.Path
	if len(l.Query) > 0 {
		s += "?" + l.Query.Encode()
	}
	return s
}

// HasFragment reports whether a fragment is present.
func (l Location) HasFragment() bool {
	return l.Fragment != ""
}
