package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/api/middleware"
	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// currentActor returns the caller resolved by the Auth middleware. Protected
// routes always run behind it, so a missing actor means the route was wired
// without authentication and is rejected as such.
func currentActor(c echo.Context) (*domain.Actor, error) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgNotAuthenticated)
	}
	return actor, nil
}

// bindAndValidate decodes the request body into req and runs shape
// validation. Undecodable bodies are a validation failure.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidation("Malformed request body.")
	}
	return c.Validate(req)
}

// pathID parses the :id route parameter. A value that is not a positive
// integer cannot name a resource and is reported as notFound.
func pathID(c echo.Context, notFound *domain.Error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, notFound
	}
	return id, nil
}
