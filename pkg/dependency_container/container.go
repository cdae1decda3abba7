package dependency_container

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	appAttackLog "github.com/NeuralTrust/XSSGuard/pkg/app/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/app/comment"
	"github.com/NeuralTrust/XSSGuard/pkg/app/security"
	"github.com/NeuralTrust/XSSGuard/pkg/config"
	domainAttackLog "github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	handlers "github.com/NeuralTrust/XSSGuard/pkg/handlers/http"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/breaker"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/cache"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/database"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/repository"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/XSSGuard/pkg/middleware"
	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
	"github.com/NeuralTrust/XSSGuard/pkg/server/router"
	"github.com/sirupsen/logrus"
)

const (
	recorderWorkers      = 4
	commentsListLimit    = 10
	kafkaBreakerTimeout  = 30 * time.Second
	kafkaBreakerFailures = 5
)

type Container struct {
	Detector            *detection.Detector
	Sanitizer           *sanitization.Sanitizer
	Cache               cache.Client
	AttackLogRepository domainAttackLog.Repository
	AttackLogRecorder   appAttackLog.Recorder
	Processor           security.Processor
	Submitter           comment.Submitter
	AnalyticsService    analytics.Service
	JWTManager          jwt.Manager
	HandlerTransport    handlers.HandlerTransport
	MiddlewareTransport middleware.Transport
	Routers             []router.ServerRouter
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *database.DB
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger

	detector, err := detection.NewDetector(cfg.Detection.RuleSet())
	if err != nil {
		return nil, fmt.Errorf("failed to build detector: %w", err)
	}
	logger.WithField("rules", detector.Rules()).Info("detection rules loaded")

	sanitizer := sanitization.NewSanitizer()

	var cacheClient cache.Client
	if cfg.Redis.Enabled() {
		cacheClient, err = cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	} else {
		logger.Info("redis not configured, dashboard queries are not cached")
	}

	attackLogRepository := repository.NewAttackLogRepository(di.DB.DB)
	commentRepository := repository.NewCommentRepository(di.DB.DB)

	var exporters []domainAttackLog.Exporter
	if cacheClient != nil {
		exporters = append(exporters, analytics.NewCacheInvalidator(cacheClient))
	}
	if cfg.Kafka.Enabled() {
		exporter, err := kafka.NewExporter(map[string]interface{}{
			"host":  cfg.Kafka.Host,
			"port":  cfg.Kafka.Port,
			"topic": cfg.Kafka.Topic,
		}, breaker.NewCircuitBreaker("kafka-exporter", kafkaBreakerTimeout, kafkaBreakerFailures))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize kafka exporter: %w", err)
		}
		exporters = append(exporters, exporter)
	}

	recorder := appAttackLog.NewRecorder(logger, attackLogRepository, exporters...)
	recorder.StartWorkers(recorderWorkers)

	processor := security.NewProcessor(logger, detector, sanitizer, recorder)
	submitter := comment.NewSubmitter(logger, processor, commentRepository)
	analyticsService := analytics.NewService(logger, attackLogRepository, cacheClient, cfg.Dashboard.CacheTTL)

	healthChecks := map[string]handlers.HealthCheck{
		"database": di.DB.Ping,
	}
	if cacheClient != nil {
		healthChecks["redis"] = cacheClient.Ping
	}

	handlerTransport := handlers.HandlerTransport{
		SubmitCommentHandler: handlers.NewSubmitCommentHandler(logger, submitter),
		ListCommentsHandler:  handlers.NewListCommentsHandler(logger, submitter, commentsListLimit),

		GetDashboardHandler:        handlers.NewGetDashboardHandler(logger, analyticsService, cfg.Dashboard.RecentLimit),
		GetAttackStatsHandler:      handlers.NewGetAttackStatsHandler(logger, analyticsService),
		ListAttacksHandler:         handlers.NewListAttacksHandler(logger, analyticsService),
		ListHighRiskAttacksHandler: handlers.NewListHighRiskAttacksHandler(logger, analyticsService, cfg.Dashboard.HighRiskThreshold),

		GetVersionHandler: handlers.NewGetVersionHandler(),
		HealthHandler:     handlers.NewHealthHandler(logger, healthChecks),
	}

	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware:    middleware.NewPanicRecoverMiddleware(logger),
		RequestLoggerMiddleware:   middleware.NewRequestLoggerMiddleware(logger, cfg.Metrics.Enabled),
		SecurityHeadersMiddleware: middleware.NewSecurityHeadersMiddleware(cfg.Security),
	}

	var jwtManager jwt.Manager
	if cfg.Dashboard.JWTSecret != "" {
		jwtManager, err = jwt.NewJwtManager(cfg.Dashboard.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize jwt manager: %w", err)
		}
		middlewareTransport.AdminAuthMiddleware = middleware.NewAdminAuthMiddleware(logger, jwtManager)
	}

	routers := []router.ServerRouter{router.NewPublicRouter(handlerTransport)}
	if cfg.Dashboard.Enabled {
		if jwtManager == nil {
			logger.Warn("dashboard enabled without dashboard.jwt_secret, attack logs are publicly readable")
		}
		swaggerURL := fmt.Sprintf("http://localhost:%d/swagger.json", cfg.Server.Port)
		routers = append(routers, router.NewDashboardRouter(&middlewareTransport, handlerTransport, swaggerURL))
	} else {
		logger.Info("dashboard disabled by configuration")
	}

	return &Container{
		Detector:            detector,
		Sanitizer:           sanitizer,
		Cache:               cacheClient,
		AttackLogRepository: attackLogRepository,
		AttackLogRecorder:   recorder,
		Processor:           processor,
		Submitter:           submitter,
		AnalyticsService:    analyticsService,
		JWTManager:          jwtManager,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
		Routers:             routers,
	}, nil
}

// Close drains the recorder, which also closes its exporters, then the cache.
func (c *Container) Close() {
	c.AttackLogRecorder.Shutdown()
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
