package navigation

import (
	"testing"

	"ptieasy-service/internal/domain/auth"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var (
	driver  = auth.AuthState{Authenticated: true, Role: auth.RoleDriver}
	manager = auth.AuthState{Authenticated: true, Role: auth.RoleManager}
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		state auth.AuthState
		want  Decision
	}{
		{"root anonymous", "/", auth.Anonymous, Decision{Path: "/", Outcome: OutcomeRedirect, Target: "/login"}},
		{"root driver", "/", driver, Decision{Path: "/", Outcome: OutcomeRedirect, Target: "/driver"}},
		{"root manager", "/", manager, Decision{Path: "/", Outcome: OutcomeRedirect, Target: "/dashboard"}},
		{"login anonymous", "/login", auth.Anonymous, Decision{Path: "/login", Outcome: OutcomeAllow}},
		{"login driver", "/login", driver, Decision{Path: "/login", Outcome: OutcomeRedirect, Target: "/driver"}},
		{"login manager", "/login", manager, Decision{Path: "/login", Outcome: OutcomeRedirect, Target: "/dashboard"}},
		{"protected anonymous", "/vehicles", auth.Anonymous, Decision{Path: "/vehicles", Outcome: OutcomeRedirect, Target: "/login"}},
		{"protected manager", "/statistics", manager, Decision{Path: "/statistics", Outcome: OutcomeAllow}},
		{"driver shell anonymous", "/driver", auth.Anonymous, Decision{Path: "/driver", Outcome: OutcomeRedirect, Target: "/login"}},
		{"unknown anonymous", "/nope", auth.Anonymous, Decision{Path: "/nope", Outcome: OutcomeNotFound}},
		{"unknown manager", "/reports/2024", manager, Decision{Path: "/reports/2024", Outcome: OutcomeNotFound}},
		{"trailing slash and query", "/employees/?q=ann", manager, Decision{Path: "/employees", Outcome: OutcomeAllow}},
		{"missing leading slash", "pti-sessions", auth.Anonymous, Decision{Path: "/pti-sessions", Outcome: OutcomeRedirect, Target: "/login"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.path, tt.state)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestResolve_EveryProtectedRouteRedirectsAnonymous(t *testing.T) {
	for route := range protectedRoutes {
		d := Resolve(route, auth.Anonymous)
		assert.Equal(t, OutcomeRedirect, d.Outcome, route)
		assert.Equal(t, RouteLogin, d.Target, route)
	}
}

func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected("/vehicles/"))
	assert.True(t, IsProtected("/driver?tab=today"))
	assert.False(t, IsProtected("/login"))
	assert.False(t, IsProtected("/nowhere"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", Normalize(""))
	assert.Equal(t, "/", Normalize("///"))
	assert.Equal(t, "/driver", Normalize("/driver#top"))
}
