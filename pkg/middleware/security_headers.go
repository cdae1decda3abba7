package middleware

import (
	"strings"

	"github.com/NeuralTrust/XSSGuard/pkg/config"
	"github.com/gofiber/fiber/v2"
)

type securityHeadersMiddleware struct {
	csp            string
	frameOptions   string
	referrerPolicy string
}

func NewSecurityHeadersMiddleware(cfg config.SecurityConfig) Middleware {
	directives := cfg.ContentSecurityPolicy
	if len(directives) == 0 {
		directives = config.DefaultContentSecurityPolicy
	}
	frameOptions := cfg.FrameOptions
	if frameOptions == "" {
		frameOptions = "SAMEORIGIN"
	}
	referrerPolicy := cfg.ReferrerPolicy
	if referrerPolicy == "" {
		referrerPolicy = "strict-origin-when-cross-origin"
	}
	return &securityHeadersMiddleware{
		csp:            strings.Join(directives, "; "),
		frameOptions:   frameOptions,
		referrerPolicy: referrerPolicy,
	}
}

func (m *securityHeadersMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentSecurityPolicy, m.csp)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, m.frameOptions)
		c.Set(fiber.HeaderReferrerPolicy, m.referrerPolicy)
		return c.Next()
	}
}
