package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after Auth.
// A caller without one of the allowed roles gets the Unauthorized domain
// error.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromContext(c)
			if actor == nil {
				return domain.ErrUnauthorized
			}
			if _, ok := allowed[actor.Role]; !ok {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
