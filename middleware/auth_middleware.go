package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// CustomClaims carries the profile fields the auth collaborator embeds
// in its tokens.
type CustomClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	Guest        bool           `json:"guest"`
}

func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// IsGuest reports whether the token scopes its holder to the guest
// namespace.
func (c *CustomClaims) IsGuest() bool {
	return c != nil && c.Guest
}

// Name returns the display name recorded at sign-up, if any.
func (c *CustomClaims) Name() string {
	if c == nil || c.UserMetadata == nil {
		return ""
	}
	if name, ok := c.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

// EnsureValidToken validates bearer tokens signed with the secret
// shared with the auth collaborator. Credentials are optional: requests
// without a token fall through to the guest namespace.
func EnsureValidToken() func(next http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET_KEY"))
	issuer := os.Getenv("AUTH_ISSUER")
	audience := os.Getenv("AUTH_AUDIENCE")
	if audience == "" {
		audience = "authenticated"
	}

	if _, err := url.Parse(issuer); err != nil || issuer == "" {
		log.Fatalf("EnsureValidToken: AUTH_ISSUER is missing or invalid: %v", err)
	}

	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
	)
	if err != nil {
		log.Fatalf("EnsureValidToken: failed to set up JWT validator: %v", err)
	}

	m := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithCredentialsOptional(true),
	)
	return m.CheckJWT
}
