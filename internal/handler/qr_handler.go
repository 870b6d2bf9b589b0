package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 280

// QRHandler renders a QR code pointing at the admin console.
type QRHandler struct {
	publicBaseURL string
}

func NewQRHandler(publicBaseURL string) *QRHandler {
	return &QRHandler{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *QRHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/admin/qr", h.AdminQR)
}

func (h *QRHandler) AdminQR(c echo.Context) error {
	png, err := qrcode.Encode(h.adminURL(c), qrcode.Medium, qrSize)
	if err != nil {
		return httpError(apperr.Wrap(apperr.KindInternal, "qr_failed", "render qr code", err))
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *QRHandler) adminURL(c echo.Context) string {
	base := h.publicBaseURL
	if base == "" {
		base = requestScheme(c) + "://" + c.Request().Host
	}
	return base + "/admin/"
}
