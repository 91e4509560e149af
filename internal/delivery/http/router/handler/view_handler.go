package handler

import (
	"net/http"

	"github.com/Manuufarina/gestion-zoonosis/internal/app"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ViewHandlerParams holds dependencies for ViewHandler, injected by Fx.
type ViewHandlerParams struct {
	fx.In

	Shell *app.Shell
}

// ViewHandler exposes the current screen and its bound data.
type ViewHandler struct {
	shell *app.Shell
}

// NewViewHandler is the constructor for ViewHandler.
func NewViewHandler(params ViewHandlerParams) *ViewHandler {
	return &ViewHandler{shell: params.Shell}
}

// Get handles GET /view.
func (h *ViewHandler) Get(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.shell.ViewModel())
}

// HealthCheck handles GET /health.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
