// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers, injected by Fx.
type RouterParams struct {
	fx.In

	SessionHandler *handler.SessionHandler
	ViewHandler    *handler.ViewHandler
	ActionHandler  *handler.ActionHandler
	ExportHandler  *handler.ExportHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler *handler.SessionHandler
	viewHandler    *handler.ViewHandler
	actionHandler  *handler.ActionHandler
	exportHandler  *handler.ExportHandler
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler: params.SessionHandler,
		viewHandler:    params.ViewHandler,
		actionHandler:  params.ActionHandler,
		exportHandler:  params.ExportHandler,
	}
}

// RegisterRoutes sets up all the routes of the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	e.POST("/session", r.sessionHandler.SignIn)
	e.DELETE("/session", r.sessionHandler.SignOut)

	e.GET("/view", r.viewHandler.Get)
	e.POST("/actions", r.actionHandler.Handle)

	exportsGroup := e.Group("/exports")
	{
		exportsGroup.GET("", r.exportHandler.List)
		exportsGroup.GET("/:key", r.exportHandler.Download)
	}
}
