package router

import (
	"fmt"

	handlers "github.com/NeuralTrust/XSSGuard/pkg/handlers/http"
	"github.com/NeuralTrust/XSSGuard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

type dashboardRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	swaggerURL          string
}

func NewDashboardRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	swaggerURL string,
) ServerRouter {
	return &dashboardRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerURL:          swaggerURL,
	}
}

func (r *dashboardRouter) BuildRoutes(router *fiber.App) error {
	t := r.handlerTransport
	required := map[string]handlers.Handler{
		"dashboard":      t.GetDashboardHandler,
		"attack_stats":   t.GetAttackStatsHandler,
		"list_attacks":   t.ListAttacksHandler,
		"list_high_risk": t.ListHighRiskAttacksHandler,
	}
	for name, h := range required {
		if h == nil {
			return fmt.Errorf("%w: %s", ErrMissingHandler, name)
		}
	}

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: r.swaggerURL,
	}))

	dashboard := router.Group("/dashboard")
	if r.middlewareTransport != nil && r.middlewareTransport.AdminAuthMiddleware != nil {
		dashboard.Use(r.middlewareTransport.AdminAuthMiddleware.Middleware())
	}
	{
		dashboard.Get("", t.GetDashboardHandler.Handle)
		dashboard.Get("/stats", t.GetAttackStatsHandler.Handle)
		dashboard.Get("/attacks", t.ListAttacksHandler.Handle)
		dashboard.Get("/attacks/high-risk", t.ListHighRiskAttacksHandler.Handle)
	}
	return nil
}
