package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

const (
	userContextKey = "user"
	bearerPrefix   = "Bearer "
)

// UserResolver resolves a token's user id to the stored user document.
type UserResolver interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
}

type AuthMiddleware struct {
	users  UserResolver
	logger *zap.Logger
}

func NewAuthMiddleware(users UserResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{users: users, logger: logger}
}

// Authenticate rejects requests without a valid bearer token and
// attaches the resolved user to the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return httputil.Message(c, http.StatusUnauthorized, "No token, authorization denied")
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			return httputil.Message(c, http.StatusUnauthorized, "Token is not valid")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

		userID, err := auth.ValidateToken(tokenString)
		if err != nil {
			return httputil.Message(c, http.StatusUnauthorized, "Token is not valid")
		}

		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return httputil.Message(c, http.StatusUnauthorized, "Token is not valid")
		}

		user, err := m.users.FindByID(c.Request().Context(), id)
		if err != nil {
			m.logger.Error("failed to resolve token user", zap.Error(err))
			return httputil.ServerError(c)
		}
		if user == nil {
			return httputil.Message(c, http.StatusUnauthorized, "Token is not valid")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the user attached by Authenticate, or nil when
// the route is unauthenticated.
func CurrentUser(c echo.Context) *auth.User {
	user, _ := c.Get(userContextKey).(*auth.User)
	return user
}
