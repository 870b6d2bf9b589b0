package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/expo-draw-service/internal/dto"
	"github.com/Eursukkul/expo-draw-service/internal/service"
	"github.com/labstack/echo/v4"
)

// PublicHandler serves the attendee-facing API.
type PublicHandler struct {
	exhibitions service.ExhibitionService
	checkins    service.CheckinService
	draws       service.DrawService
	settings    service.SettingsReader
}

func NewPublicHandler(
	exhibitions service.ExhibitionService,
	checkins service.CheckinService,
	draws service.DrawService,
	settings service.SettingsReader,
) *PublicHandler {
	return &PublicHandler{exhibitions: exhibitions, checkins: checkins, draws: draws, settings: settings}
}

func (h *PublicHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/public")
	g.GET("/active", h.GetActive)
	g.GET("/draw-settings", h.GetDrawSettings)
	g.POST("/checkin", h.Checkin)
	g.GET("/history", h.History)
	g.GET("/my-checkins", h.History)
	g.POST("/draw", h.Draw)
}

func (h *PublicHandler) GetActive(c echo.Context) error {
	active, err := h.exhibitions.GetActive(c.Request().Context())
	if errors.Is(err, service.ErrNoActiveExhibition) {
		return c.JSON(http.StatusOK, dto.ToActiveExhibitionResponse(nil))
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToActiveExhibitionResponse(active))
}

func (h *PublicHandler) GetDrawSettings(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *PublicHandler) Checkin(c echo.Context) error {
	var req dto.CheckinRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid", "invalid request body")
	}

	record, err := h.checkins.Checkin(c.Request().Context(), req.ToInput())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToCheckinResponse(record))
}

func (h *PublicHandler) History(c echo.Context) error {
	rows, err := h.checkins.History(c.Request().Context(), c.QueryParam("phone"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *PublicHandler) Draw(c echo.Context) error {
	var req dto.DrawRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid", "invalid request body")
	}

	outcome, err := h.draws.DrawForActive(c.Request().Context(), req.Phone)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, outcome)
}
