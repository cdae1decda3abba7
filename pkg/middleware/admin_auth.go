package middleware

import (
	"errors"
	"strings"

	"github.com/NeuralTrust/XSSGuard/pkg/common"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const bearerScheme = "bearer"

var (
	errMissingAuthorization = errors.New("authorization required")
	errInvalidAuthScheme    = errors.New("invalid authorization format")
	errEmptyBearerToken     = errors.New("empty token provided")
)

type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

// NewAdminAuthMiddleware guards the dashboard with a bearer token signed by
// the dashboard secret. The token subject is exposed to handlers under
// common.DashboardSubjectContextKey.
func NewAdminAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &adminAuthMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, err := bearerToken(ctx.Get(fiber.HeaderAuthorization))
		if err != nil {
			m.logger.WithField("path", ctx.Path()).Debug(err.Error())
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		claims, err := m.jwtManager.DecodeToken(token)
		if err != nil {
			m.logger.WithError(err).WithField("path", ctx.Path()).Debug("dashboard token rejected")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		ctx.Locals(common.DashboardSubjectContextKey, claims.Subject)

		return ctx.Next()
	}
}

// bearerToken extracts the credentials from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthorization
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", errInvalidAuthScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errEmptyBearerToken
	}
	return token, nil
}
