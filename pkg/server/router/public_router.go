package router

import (
	"fmt"

	handlers "github.com/NeuralTrust/XSSGuard/pkg/handlers/http"
	"github.com/gofiber/fiber/v2"
)

type publicRouter struct {
	handlerTransport handlers.HandlerTransport
}

func NewPublicRouter(handlerTransport handlers.HandlerTransport) ServerRouter {
	return &publicRouter{handlerTransport: handlerTransport}
}

func (r *publicRouter) BuildRoutes(router *fiber.App) error {
	t := r.handlerTransport
	required := map[string]handlers.Handler{
		"submit_comment": t.SubmitCommentHandler,
		"list_comments":  t.ListCommentsHandler,
		"health":         t.HealthHandler,
		"version":        t.GetVersionHandler,
	}
	for name, h := range required {
		if h == nil {
			return fmt.Errorf("%w: %s", ErrMissingHandler, name)
		}
	}

	router.Get("/health", t.HealthHandler.Handle)
	router.Get("/version", t.GetVersionHandler.Handle)

	router.Post("/", t.SubmitCommentHandler.Handle)
	router.Get("/", t.ListCommentsHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		comments := v1.Group("/comments")
		{
			comments.Post("", t.SubmitCommentHandler.Handle)
			comments.Get("", t.ListCommentsHandler.Handle)
		}
	}
	return nil
}
