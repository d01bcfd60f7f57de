package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
	"github.com/omprakashcoder/flashcardgenerator-v1/storage"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

type contextKey string

// UserContextKey is where SyncUserMiddleware stores the *models.User.
const UserContextKey contextKey = "user"

// SyncUserMiddleware ensures the authenticated subject has a stored
// profile, creating one at the first authenticated session, and
// attaches it to the request context.
func SyncUserMiddleware(store *storage.Store) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok || claims.RegisteredClaims.Subject == "" {
				http.Error(w, "No authenticated subject found", http.StatusUnauthorized)
				return
			}

			custom, _ := claims.CustomClaims.(*CustomClaims)
			if custom != nil && custom.Guest {
				http.Error(w, "Guest sessions cannot access account endpoints", http.StatusUnauthorized)
				return
			}

			userID := claims.RegisteredClaims.Subject
			user := store.User(userID)
			if user == nil {
				name := ""
				email := ""
				if custom != nil {
					name = custom.Name()
					email = custom.Email
				}
				if name == "" {
					name = "Student"
				}
				user = &models.User{
					ID:    userID,
					Name:  name,
					Email: email,
					Preferences: &models.Preferences{
						RandomizeFront: true,
						RandomizeBack:  true,
					},
				}
				if err := store.SaveUser(user); err != nil {
					log.Printf("SyncUserMiddleware: failed to create profile for id=%s: %v", userID, err)
					http.Error(w, "Failed to create user", http.StatusInternalServerError)
					return
				}
				log.Printf("SyncUserMiddleware: created profile for new user %s", userID)
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}
