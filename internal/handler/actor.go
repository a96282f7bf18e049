package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the authenticated actor from the validated JWT and
// loads the user record from the database on every request. Approval and role
// checks therefore always see current state, never what the token was issued
// with.
func ActorMiddleware(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			userID, ok := claims["user_id"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			user, err := users.FindByID(c.Request().Context(), uint(userID))
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "load user")
			}

			c.Set(actorContextKey, user)
			return next(c)
		}
	}
}

// Actor returns the user loaded by ActorMiddleware.
func Actor(c echo.Context) (*model.User, error) {
	user, ok := c.Get(actorContextKey).(*model.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no actor in context")
	}
	return user, nil
}
