package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware    Middleware
	RequestLoggerMiddleware   Middleware
	SecurityHeadersMiddleware Middleware
	// nil when the dashboard runs without a jwt secret
	AdminAuthMiddleware Middleware
}
