package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Piladin/ZTPAI/internal/api/metrics"
	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Error is
// a message, or a field→messages map for field-level validation failures.
type errorResponse struct {
	Error  any `json:"error"`
	Status int `json:"status"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to the status and detail of their kind.
//   - Renders Echo's own errors (router 404/405, auth 401) in the same envelope.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, payload, kind := resolveError(err, log, c)
		metrics.ErrorResponsesTotal.WithLabelValues(kind).Inc()

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: payload, Status: code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any, string) {
	if de, ok := domain.AsError(err); ok && de.Kind != domain.KindInternal {
		return de.Kind.Status(), de.Payload(), de.Kind.String()
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), "http"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.KindInternal.DefaultDetail(), domain.KindInternal.String()
}
