// Package handler contains the HTTP endpoints of the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Manuufarina/gestion-zoonosis/internal/app"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	Shell  *app.Shell
	Logger *slog.Logger
}

// SessionHandler signs the operator in and out.
type SessionHandler struct {
	shell  *app.Shell
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler.
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		shell:  params.Shell,
		logger: params.Logger,
	}
}

// SignInRequest represents the request body for signing in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn handles POST /session.
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Credenciales mal formadas")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.shell.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.shell.ViewModel())
}

// SignOut handles DELETE /session.
func (h *SessionHandler) SignOut(c echo.Context) error {
	h.shell.SignOut()

	return response.Success(c, http.StatusOK, h.shell.ViewModel())
}
