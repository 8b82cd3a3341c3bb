package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/api/metrics"
	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]any
// @Router       /user/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	u, err := h.service.Me(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateMe applies a partial update to the caller's profile.
//
// @Summary      Edit current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /user/edit/ [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.service.UpdateMe(c.Request().Context(), actor, ports.UpdateUserInput{
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
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// List returns every account. Administrators only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	users, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Delete removes an account and its announcements. Administrators only.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /users/{id}/ [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
