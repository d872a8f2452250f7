// Package guard gates access to role-protected views.
package guard

import (
	"strings"

	"nocturna/internal/notify"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow permits the protected view.
	Allow Decision = iota
	// RedirectLogin means no session exists; go to the login view.
	RedirectLogin
	// RedirectCatalog means the session lacks the required role; fall back
	// to the default catalog view.
	RedirectCatalog
)

// Session is the slice of the session store the guard needs.
type Session interface {
	LoggedIn() bool
	Rol() string
}

// Check permits the view when a session exists and, if allowedRoles is
// non-empty, its role (case-insensitively) is among them. Each denial path
// emits its own notification. Callers must not issue the protected API call
// unless the decision is Allow.
func Check(s Session, n notify.Notifier, allowedRoles ...string) Decision {
	if !s.LoggedIn() {
		n.Warn("Necesitas iniciar sesión para acceder a esta página.")
		return RedirectLogin
	}

	if len(allowedRoles) == 0 {
		return Allow
	}

	rol := strings.ToLower(s.Rol())
	for _, allowed := range allowedRoles {
		if rol != "" && rol == strings.ToLower(allowed) {
			return Allow
		}
	}

	n.Error("No tienes permisos suficientes para acceder a esta función.")
	return RedirectCatalog
}
