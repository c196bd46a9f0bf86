package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/pixshare/backend/internal/repositories"
)

// FirebaseAuthMiddleware verifies a Firebase ID token and resolves it to a
// local user id. Used instead of the JWT middleware when AUTH_PROVIDER is
// set to firebase.
func FirebaseAuthMiddleware(client *auth.Client, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			token, err := client.VerifyIDToken(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
			}

			user, err := users.GetUserByFirebaseUID(c.Request().Context(), token.UID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Identity no longer resolves to a user")
			}

			c.Set("userID", user.ID.Hex())

			return next(c)
		}
	}
}
