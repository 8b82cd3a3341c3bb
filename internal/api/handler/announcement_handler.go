package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Piladin/ZTPAI/internal/api/metrics"
	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

type AnnouncementHandler struct {
	service ports.AnnouncementService
}

func NewAnnouncementHandler(service ports.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// List returns one page of announcements, most recent first.
//
// @Summary      List announcements
// @Tags         announcements
// @Produce      json
// @Param        page  query     int  false  "Page number, starting at 1"
// @Success      200   {object}  announcementPageResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /announcements/ [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return domain.NewFieldValidation(domain.FieldErrors{"page": {"A valid positive integer is required."}})
		}
		page = n
	}

	result, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnnouncementPage(c, result))
}

// Get returns a single announcement.
//
// @Summary      Get announcement
// @Tags         announcements
// @Produce      json
// @Param        id   path      int  true  "Announcement ID"
// @Success      200  {object}  announcementResponse
// @Failure      404  {object}  map[string]any
// @Router       /announcements/{id}/ [get]
func (h *AnnouncementHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrAnnouncementNotFound)
	if err != nil {
		return err
	}

	a, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnnouncementResponse(a))
}

// Search filters announcements by subject substring and an inclusive rate
// range. Every parameter is optional.
//
// @Summary      Search announcements
// @Tags         announcements
// @Produce      json
// @Param        subject   query     string  false  "Case-insensitive subject substring"
// @Param        min_rate  query     number  false  "Minimum hourly rate (inclusive)"
// @Param        max_rate  query     number  false  "Maximum hourly rate (inclusive)"
// @Success      200       {array}   announcementResponse
// @Failure      400       {object}  map[string]any
// @Router       /announcements/search/ [get]
func (h *AnnouncementHandler) Search(c echo.Context) error {
	fe := domain.FieldErrors{}
	filter := ports.AnnouncementFilter{Subject: c.QueryParam("subject")}
	filter.MinRate = rateBound(c, fe, "min_rate", true)
	filter.MaxRate = rateBound(c, fe, "max_rate", false)
	if err := fe.Err(); err != nil {
		return err
	}

	items, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnnouncementResponses(items))
}

func rateBound(c echo.Context, fe domain.FieldErrors, name string, lower bool) *domain.Rate {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	r, err := domain.ParseRateBound(raw, lower)
	if err != nil {
		fe.Add(name, err.Error())
		return nil
	}
	return &r
}

// Create publishes an announcement authored by the caller.
//
// @Summary      Add announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnnouncementRequest  true  "Announcement"
// @Success      201   {object}  announcementResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /announcements/add/ [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req createAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Create(c.Request().Context(), actor, ports.CreateAnnouncementInput{
		Subject:    req.Subject,
		Content:    req.Content,
		HourlyRate: req.rate,
	})
	if err != nil {
		return err
	}

	metrics.AnnouncementMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toAnnouncementResponse(a))
}

// Update applies a partial update. Only the author or an administrator may
// edit an announcement. Existence and ownership are checked before the body,
// so a missing id is a 404 and a foreign one a 403 whatever is sent.
//
// @Summary      Edit announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                        true  "Announcement ID"
// @Param        body  body      updateAnnouncementRequest  true  "Fields to change"
// @Success      200   {object}  announcementResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /announcements/edit/{id}/ [put]
func (h *AnnouncementHandler) Update(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrAnnouncementNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Authorize(c.Request().Context(), actor, domain.ActionWrite, id); err != nil {
		return err
	}
	var req updateAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Update(c.Request().Context(), actor, id, ports.UpdateAnnouncementInput{
		Subject:    req.subject,
		Content:    req.content,
		HourlyRate: req.rate,
	})
	if err != nil {
		return err
	}

	metrics.AnnouncementMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toAnnouncementResponse(a))
}

// Delete removes an announcement. Only the author or an administrator may
// delete it.
//
// @Summary      Delete announcement
// @Tags         announcements
// @Security     BearerAuth
// @Param        id  path  int  true  "Announcement ID"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /announcements/delete/{id}/ [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrAnnouncementNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	metrics.AnnouncementMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
