package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthState(t *testing.T) {
	tests := []struct {
		name     string
		authFlag string
		roleFlag string
		want     AuthState
	}{
		{"missing flag", "", "driver", Anonymous},
		{"flag must be exact", "TRUE", "driver", Anonymous},
		{"driver", "true", "driver", AuthState{Authenticated: true, Role: RoleDriver}},
		{"manager", "true", "manager", AuthState{Authenticated: true, Role: RoleManager}},
		{"unknown role is manager", "true", "admin", AuthState{Authenticated: true, Role: RoleManager}},
		{"empty role is manager", "true", "", AuthState{Authenticated: true, Role: RoleManager}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAuthState(tt.authFlag, tt.roleFlag))
		})
	}
}

func TestAuthState_IsDriver(t *testing.T) {
	assert.True(t, AuthState{Authenticated: true, Role: RoleDriver}.IsDriver())
	assert.False(t, AuthState{Role: RoleDriver}.IsDriver())
	assert.False(t, AuthState{Authenticated: true, Role: RoleManager}.IsDriver())
}
