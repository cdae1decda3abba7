package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	"github.com/NeuralTrust/XSSGuard/pkg/app/comment"
	"github.com/NeuralTrust/XSSGuard/pkg/app/security"
	"github.com/NeuralTrust/XSSGuard/pkg/domain"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	attackMocks "github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog/mocks"
	domainComment "github.com/NeuralTrust/XSSGuard/pkg/domain/comment"
	commentMocks "github.com/NeuralTrust/XSSGuard/pkg/domain/comment/mocks"
	"github.com/NeuralTrust/XSSGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app         *fiber.App
	attackRepo  *attackMocks.MockRepository
	commentRepo *commentMocks.MockRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.ErrorLevel)

	attackRepo := new(attackMocks.MockRepository)
	commentRepo := new(commentMocks.MockRepository)

	detector, err := detection.NewDetector(detection.DefaultRules())
	require.NoError(t, err)
	processor := security.NewProcessor(logger, detector, sanitization.NewSanitizer(), attackRepo)
	submitter := comment.NewSubmitter(logger, processor, commentRepo)
	svc := analytics.NewService(logger, attackRepo, nil, 0)

	app := fiber.New()
	app.Post("/api/v1/comments", NewSubmitCommentHandler(logger, submitter).Handle)
	app.Get("/api/v1/comments", NewListCommentsHandler(logger, submitter, 10).Handle)
	app.Get("/dashboard", NewGetDashboardHandler(logger, svc, 10).Handle)
	app.Get("/dashboard/stats", NewGetAttackStatsHandler(logger, svc).Handle)
	app.Get("/dashboard/attacks", NewListAttacksHandler(logger, svc).Handle)
	app.Get("/dashboard/attacks/high-risk", NewListHighRiskAttacksHandler(logger, svc, 8).Handle)
	app.Get("/version", NewGetVersionHandler().Handle)

	return &testEnv{app: app, attackRepo: attackRepo, commentRepo: commentRepo}
}

func decode(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestSubmitCommentHandler_SuspiciousForm(t *testing.T) {
	env := newTestEnv(t)
	env.attackRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *attacklog.AttackLog) bool {
		return e.AttackType == detection.RuleScriptTag && e.UserAgent == "test-agent"
	})).Return(nil).Once()
	env.commentRepo.On("Save", mock.Anything, mock.AnythingOfType("*comment.Comment")).Return(nil).Once()

	form := url.Values{"comment": {"<script>alert(1)</script>"}}
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/comments", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderUserAgent, "test-agent")

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body response.SubmitCommentResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "", body.Sanitized)
	assert.Equal(t, "html", body.Context)
	assert.True(t, body.Detection.IsSuspicious)
	assert.Equal(t, 10, body.Detection.Score)
	assert.NotEmpty(t, body.CommentID)
	env.attackRepo.AssertExpectations(t)
	env.commentRepo.AssertExpectations(t)
}

func TestSubmitCommentHandler_JSONWithContext(t *testing.T) {
	env := newTestEnv(t)
	env.commentRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/comments",
		strings.NewReader(`{"comment":"a b&c","context":"url"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body response.SubmitCommentResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "a%20b%26c", body.Sanitized)
	assert.Equal(t, "url", body.Context)
	assert.False(t, body.Detection.IsSuspicious)
	env.attackRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSubmitCommentHandler_AttackLogFailureStillAnswers(t *testing.T) {
	env := newTestEnv(t)
	env.attackRepo.On("Append", mock.Anything, mock.Anything).
		Return(domain.NewStoreError("append attack log", errors.New("database is locked"))).Once()
	env.commentRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/comments",
		strings.NewReader(`{"comment":"<img src=x onerror=alert(1)>"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body response.SubmitCommentResponse
	decode(t, resp.Body, &body)
	assert.Contains(t, body.Detection.MatchedRules, detection.RuleEventHandler)
	assert.Equal(t, "", body.Sanitized)
}

func TestSubmitCommentHandler_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct {
		name        string
		body        string
		contentType string
	}{
		{name: "empty comment", body: `{"comment":"   "}`, contentType: fiber.MIMEApplicationJSON},
		{name: "malformed json", body: `{"comment":`, contentType: fiber.MIMEApplicationJSON},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/v1/comments", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, tc.contentType)

			resp, err := env.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
	env.commentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitCommentHandler_SaveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.commentRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/comments", strings.NewReader(`{"comment":"hello"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestListCommentsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.commentRepo.On("ListRecent", mock.Anything, 10).Return([]domainComment.Comment{
		{RawText: "<b>raw</b>", SanitizedText: "<b>raw</b>", Context: "html"},
	}, nil).Once()

	resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/comments", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	decode(t, resp.Body, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "<b>raw</b>", body[0]["sanitized_text"])
	assert.NotContains(t, body[0], "raw_text")
}

func TestDashboardHandlers(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := []attacklog.AttackLog{
		{AttackType: "script_tag", RiskScore: 26, MatchedRules: attacklog.MatchedRules{"script_tag", "uri_scheme", "iframe"}, Timestamp: now},
		{AttackType: "event_handler", RiskScore: 8, MatchedRules: attacklog.MatchedRules{"event_handler"}, Timestamp: now.Add(-time.Minute)},
	}
	env.attackRepo.On("CountAll", mock.Anything).Return(int64(2), nil)
	env.attackRepo.On("Recent", mock.Anything, 10).Return(recent, nil)
	env.attackRepo.On("Recent", mock.Anything, 50).Return(recent, nil)
	env.attackRepo.On("Recent", mock.Anything, 5).Return(recent[:1], nil)
	env.attackRepo.On("DistributionByType", mock.Anything).Return(map[string]int64{"script_tag": 1, "event_handler": 1}, nil)
	env.attackRepo.On("HighRisk", mock.Anything, 8).Return(recent, nil)
	env.attackRepo.On("HighRisk", mock.Anything, 20).Return(recent[:1], nil)

	t.Run("summary", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body analytics.Summary
		decode(t, resp.Body, &body)
		assert.Equal(t, int64(2), body.TotalAttacks)
		assert.Len(t, body.RecentAttacks, 2)
	})

	t.Run("stats", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/stats", nil))
		require.NoError(t, err)

		var body map[string]int64
		decode(t, resp.Body, &body)
		assert.Equal(t, map[string]int64{"script_tag": 1, "event_handler": 1}, body)
	})

	t.Run("attacks default limit", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks", nil))
		require.NoError(t, err)

		var body []attacklog.AttackLog
		decode(t, resp.Body, &body)
		require.Len(t, body, 2)
		assert.Equal(t, attacklog.MatchedRules{"script_tag", "uri_scheme", "iframe"}, body[0].MatchedRules)
	})

	t.Run("attacks custom limit", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks?limit=5", nil))
		require.NoError(t, err)

		var body []attacklog.AttackLog
		decode(t, resp.Body, &body)
		assert.Len(t, body, 1)
	})

	t.Run("attacks invalid limit", func(t *testing.T) {
		for _, q := range []string{"0", "-1", "abc", "501"} {
			resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks?limit="+q, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "limit=%s", q)
		}
	})

	t.Run("high risk default threshold", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks/high-risk", nil))
		require.NoError(t, err)

		var body []attacklog.AttackLog
		decode(t, resp.Body, &body)
		assert.Len(t, body, 2)
	})

	t.Run("high risk custom threshold", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks/high-risk?threshold=20", nil))
		require.NoError(t, err)

		var body []attacklog.AttackLog
		decode(t, resp.Body, &body)
		require.Len(t, body, 1)
		assert.Equal(t, 26, body[0].RiskScore)
	})

	t.Run("high risk invalid threshold", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard/attacks/high-risk?threshold=high", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestDashboardHandlers_StoreErrors(t *testing.T) {
	env := newTestEnv(t)
	storeErr := domain.NewStoreError("count attack logs", errors.New("connection reset"))
	env.attackRepo.On("CountAll", mock.Anything).Return(int64(0), storeErr)
	env.attackRepo.On("DistributionByType", mock.Anything).Return(nil, storeErr)

	for _, path := range []string{"/dashboard", "/dashboard/stats"} {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, path)

		var body response.ErrorResponse
		decode(t, resp.Body, &body)
		assert.NotEmpty(t, body.Error)
	}
}

func TestGetVersionHandler(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/version", nil))
	require.NoError(t, err)

	var body map[string]interface{}
	decode(t, resp.Body, &body)
	assert.Equal(t, "XSSGuard", body["app_name"])
}

func TestHealthHandler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	app := fiber.New()
	app.Get("/ok", NewHealthHandler(logger, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	}).Handle)
	app.Get("/down", NewHealthHandler(logger, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("refused") },
	}).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/down", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	decode(t, resp.Body, &body)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Components["redis"])
	assert.Equal(t, "up", body.Components["database"])
}
