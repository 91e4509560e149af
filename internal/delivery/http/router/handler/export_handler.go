package handler

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/response"
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ExportHandlerParams holds dependencies for ExportHandler, injected by Fx.
type ExportHandlerParams struct {
	fx.In

	Artifacts service.ArtifactStore
	Logger    *slog.Logger
}

// ExportHandler lists and serves the locally stored export artifacts.
type ExportHandler struct {
	artifacts service.ArtifactStore
	logger    *slog.Logger
}

// NewExportHandler is the constructor for ExportHandler.
func NewExportHandler(params ExportHandlerParams) *ExportHandler {
	return &ExportHandler{
		artifacts: params.Artifacts,
		logger:    params.Logger,
	}
}

// List handles GET /exports.
func (h *ExportHandler) List(c echo.Context) error {
	artifacts, err := h.artifacts.List(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "failed to list export artifacts")
	}

	return response.Success(c, http.StatusOK, artifacts)
}

// Download handles GET /exports/:key, streaming the stored document.
func (h *ExportHandler) Download(c echo.Context) error {
	key := c.Param("key")
	// Keys are flat file names; a path separator means someone is probing.
	if key == "" || key != path.Base(key) {
		return response.NotFound(c, domainerrors.ErrArtifactNotFound.ErrorCode(), domainerrors.ErrArtifactNotFound.Message())
	}

	data, err := h.artifacts.Open(c.Request().Context(), key)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, contentTypeFor(key), data)
}

func contentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(key, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
