package utils

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// GetUserID returns the authenticated subject on the request. Guest
// tokens and unauthenticated requests report false, which maps to the
// guest storage namespace.
func GetUserID(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	if custom, ok := claims.CustomClaims.(interface{ IsGuest() bool }); ok && custom.IsGuest() {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}
