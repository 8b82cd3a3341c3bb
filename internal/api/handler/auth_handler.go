package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/api/metrics"
	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new standard user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /register/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Username (or email) and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Router       /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.identifier(), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Refresh: res.Tokens.Refresh,
		Access:  res.Tokens.Access,
		UserID:  res.UserID,
	})
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
		}
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}
