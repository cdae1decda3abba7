package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/common"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/XSSGuard/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type requestLoggerMiddleware struct {
	logger         *logrus.Logger
	metricsEnabled bool
}

func NewRequestLoggerMiddleware(logger *logrus.Logger, metricsEnabled bool) Middleware {
	return &requestLoggerMiddleware{
		logger:         logger,
		metricsEnabled: metricsEnabled,
	}
}

func (m *requestLoggerMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), common.StaticPathPrefix) {
			return c.Next()
		}

		requestID := c.Get(common.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(common.RequestIDContextKey, requestID)
		c.Set(common.RequestIDHeader, requestID)

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		ua := utils.ParseUserAgent(c.Get(fiber.HeaderUserAgent), c.Get(fiber.HeaderAcceptLanguage))
		m.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": float64(elapsed.Microseconds()) / 1000,
			"ip":         c.IP(),
			"browser":    ua.Browser,
			"os":         ua.OS,
			"device":     ua.Device,
		}).Info("request completed")

		if m.metricsEnabled {
			prometheus.RequestTotal.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
			prometheus.RequestLatency.WithLabelValues(c.Method()).Observe(float64(elapsed.Milliseconds()))
		}
		return err
	}
}
