// Package gate decide si una vista protegida puede renderizarse según
// el estado de la sesión. Es una función pura del estado: no consulta
// la red ni muta nada.
package gate

import (
	"dog-registry/internal/console/session"
	"dog-registry/internal/domain/users"
)

type Decision int

const (
	// Wait: la sesión todavía está en Loading; no montar contenido
	// protegido (ni siquiera un instante) hasta que se resuelva.
	Wait Decision = iota

	// RedirectLogin: sin sesión; ir al login conservando la ruta
	// pedida para volver después.
	RedirectLogin

	// Render: sesión válida, la vista puede montarse.
	Render
)

type Result struct {
	Decision Decision

	// From es la ruta originalmente pedida, solo con RedirectLogin.
	From string
}

// ForRoute evalúa el acceso a una ruta protegida.
func ForRoute(state session.State, requested string) Result {
	switch state {
	case session.StateLoading:
		return Result{Decision: Wait}
	case session.StateAuthenticated:
		return Result{Decision: Render}
	default:
		return Result{Decision: RedirectLogin, From: requested}
	}
}

// IsPrivileged dice si el usuario puede escribir registros. Nunca
// bloquea rutas; solo decide formulario editable vs. panel de lectura.
func IsPrivileged(u session.User) bool {
	return u.Role == users.RoleAdmin
}
