package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

const (
	actorKey = "actor"

	MsgNotAuthenticated = "Authentication credentials were not provided."
	MsgInvalidToken     = "Given token not valid for any token type"
)

// ActorResolver turns a bearer access token into the calling actor.
type ActorResolver interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error)
}

// Auth validates the bearer token and stores the resolved actor in the
// context. Requests without a usable token are rejected with 401 before the
// handler runs.
func Auth(resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNotAuthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			actor, err := resolver.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
				}
				return err
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFromContext returns the actor stored by Auth, or nil for anonymous
// requests.
func ActorFromContext(c echo.Context) *domain.Actor {
	actor, _ := c.Get(actorKey).(*domain.Actor)
	return actor
}
