// Package http provides the HTTP server implementation for talkflow.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iammuhammadnoumankhan/talkflow/internal/config"
	"github.com/iammuhammadnoumankhan/talkflow/internal/service"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/http/api"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/ws"
)

// NewServer creates and configures the HTTP server.
// It serves the JSON/SSE chat API and the WebSocket chat endpoint under /api.
func NewServer(cfg *config.Config, svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	if cfg.AccessLog() {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins(),
	}))

	// Handlers
	apiHandler := api.NewHandler(svc)
	wsServer := ws.NewServer(cfg, svc)

	// Register Routes
	apiHandler.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)
	e.Server.RegisterOnShutdown(wsServer.Shutdown)

	return e
}
