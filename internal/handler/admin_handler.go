package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Eursukkul/expo-draw-service/internal/dto"
	"github.com/Eursukkul/expo-draw-service/internal/export"
	"github.com/Eursukkul/expo-draw-service/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	defaultCheckinLimit = 5000
	maxCheckinLimit     = 5000
	defaultPreviewLimit = 50
	maxPreviewLimit     = 200
)

// AdminHandler serves the admin API. Every route sits behind the middleware
// passed to RegisterRoutes.
type AdminHandler struct {
	exhibitions service.ExhibitionService
	checkins    service.CheckinService
	draws       service.DrawService
	settings    service.SettingsService
	reports     service.ReportService
}

func NewAdminHandler(
	exhibitions service.ExhibitionService,
	checkins service.CheckinService,
	draws service.DrawService,
	settings service.SettingsService,
	reports service.ReportService,
) *AdminHandler {
	return &AdminHandler{
		exhibitions: exhibitions,
		checkins:    checkins,
		draws:       draws,
		settings:    settings,
		reports:     reports,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/admin", mw...)
	g.GET("/summary", h.Summary)

	g.GET("/exhibitions", h.ListExhibitions)
	g.POST("/exhibitions", h.CreateExhibition)
	g.POST("/exhibitions/:id/activate", h.ActivateExhibition)
	g.DELETE("/exhibitions/:id", h.DeleteExhibition)

	g.GET("/draw", h.GetDrawSettings)
	g.POST("/draw", h.UpdateDrawSettings)

	g.GET("/checkins", h.ListCheckins)
	g.GET("/draw-preview", h.DrawPreview)
	g.GET("/export", h.ExportCheckins)
	g.GET("/draw-export", h.ExportDraws)
}

func (h *AdminHandler) Summary(c echo.Context) error {
	summary, err := h.reports.Summary(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) ListExhibitions(c echo.Context) error {
	list, err := h.exhibitions.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) CreateExhibition(c echo.Context) error {
	var req dto.CreateExhibitionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid", "invalid request body")
	}

	exhibition, err := h.exhibitions.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, exhibition)
}

func (h *AdminHandler) ActivateExhibition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	exhibition, err := h.exhibitions.Activate(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, exhibition)
}

func (h *AdminHandler) DeleteExhibition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	force := c.QueryParam("force") == "1" || c.QueryParam("force") == "true"
	if err := h.exhibitions.Delete(c.Request().Context(), id, force); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.OKResponse{OK: true, Deleted: true})
}

func (h *AdminHandler) GetDrawSettings(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateDrawSettings(c echo.Context) error {
	var req dto.DrawSettingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid", "invalid request body")
	}

	settings, err := h.settings.Update(c.Request().Context(), req.ToUpdate())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) ListCheckins(c echo.Context) error {
	limit := clampLimit(c.QueryParam("limit"), defaultCheckinLimit, maxCheckinLimit)

	rows, err := h.checkins.ListForActive(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAdminCheckinResponses(rows))
}

func (h *AdminHandler) DrawPreview(c echo.Context) error {
	limit := clampLimit(c.QueryParam("limit"), defaultPreviewLimit, maxPreviewLimit)

	rows, err := h.draws.PreviewForActive(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) ExportCheckins(c echo.Context) error {
	report, err := h.reports.ExportCheckins(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return attachment(c, report)
}

func (h *AdminHandler) ExportDraws(c echo.Context) error {
	report, err := h.reports.ExportDraws(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return attachment(c, report)
}

func attachment(c echo.Context, report *service.Report) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", report.FileName))
	return c.Blob(http.StatusOK, export.ContentType, report.Data)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid", "invalid exhibition id")
	}
	return uint(id), nil
}

// clampLimit parses a limit query value, falling back to def when it is
// absent or not a number and clamping it into [1, upper].
func clampLimit(raw string, def, upper int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return min(max(n, 1), upper)
}
