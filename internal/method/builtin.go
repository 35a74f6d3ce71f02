package method

import (
	"context"
)

// Builtin method paths served by every deployment.
const (
	PingMethod    = "ping"
	VersionMethod = "version"
	LoginMethod   = "login"
	LogoutMethod  = "logout"
)

// RegisterBuiltins adds the ping and version methods. Login and logout
// depend on the authentication stack and are registered by the
// application container.
func RegisterBuiltins(r *Registry, version string) {
	r.Register(&Method{
		Name:       PingMethod,
		AllowGuest: true,
		Handler: func(_ context.Context, _ *Request) (any, error) {
			return "pong", nil
		},
	})
	r.Register(&Method{
		Name:       VersionMethod,
		AllowGuest: true,
		Handler: func(_ context.Context, _ *Request) (any, error) {
			return version, nil
		},
	})
}
