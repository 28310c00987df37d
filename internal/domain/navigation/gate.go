// internal/domain/navigation/gate.go
package navigation

import (
	"strings"

	"ptieasy-service/internal/domain/auth"
)

const (
	RouteRoot        = "/"
	RouteLogin       = "/login"
	RouteDashboard   = "/dashboard"
	RouteEmployees   = "/employees"
	RouteVehicles    = "/vehicles"
	RoutePTISessions = "/pti-sessions"
	RouteStatistics  = "/statistics"
	RouteDriver      = "/driver"
)

var protectedRoutes = map[string]bool{
	RouteDashboard:   true,
	RouteEmployees:   true,
	RouteVehicles:    true,
	RoutePTISessions: true,
	RouteStatistics:  true,
	RouteDriver:      true,
}

// Outcome is what the client should do with a navigation.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
	OutcomeNotFound Outcome = "not_found"
)

// Decision is the result of resolving a path against an AuthState.
type Decision struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
}

// Landing is the route an authenticated user is sent to from "/" or "/login".
func Landing(role auth.Role) string {
	if role == auth.RoleDriver {
		return RouteDriver
	}
	return RouteDashboard
}

// Normalize strips any query or fragment and trailing slashes.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = RouteRoot
		}
	}
	return path
}

// IsProtected reports whether the route requires a login.
func IsProtected(path string) bool {
	return protectedRoutes[Normalize(path)]
}

// Resolve decides where a navigation to path ends up. The gate is a display
// guard only; the API enforces roles separately.
func Resolve(path string, state auth.AuthState) Decision {
	p := Normalize(path)
	d := Decision{Path: p}

	switch {
	case p == RouteRoot:
		d.Outcome = OutcomeRedirect
		d.Target = RouteLogin
		if state.Authenticated {
			d.Target = Landing(state.Role)
		}
	case p == RouteLogin:
		if state.Authenticated {
			d.Outcome = OutcomeRedirect
			d.Target = Landing(state.Role)
		} else {
			d.Outcome = OutcomeAllow
		}
	case IsProtected(p):
		if state.Authenticated {
			d.Outcome = OutcomeAllow
		} else {
			d.Outcome = OutcomeRedirect
			d.Target = RouteLogin
		}
	default:
		d.Outcome = OutcomeNotFound
	}

	return d
}
