package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/domain"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog/mocks"
	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func setupProcessor(t *testing.T, recorder attacklog.Recorder) (Processor, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	detector, err := detection.NewDetector(detection.DefaultRules())
	require.NoError(t, err)
	p := NewProcessor(logger, detector, sanitization.NewSanitizer(), recorder,
		WithClock(func() time.Time { return fixedNow }))
	return p, hook
}

var md = Metadata{SourceAddress: "203.0.113.7", ClientAgent: "Mozilla/5.0"}

func TestProcessor_Process_SuspiciousInputIsLogged(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(e *attacklog.AttackLog) bool {
		return e.Payload == "<script>alert(1)</script>" &&
			e.AttackType == detection.RuleScriptTag &&
			e.RiskScore == 10 &&
			assert.ObjectsAreEqual(attacklog.MatchedRules{detection.RuleScriptTag}, e.MatchedRules) &&
			e.IPAddress == md.SourceAddress &&
			e.UserAgent == md.ClientAgent &&
			e.Timestamp.Equal(fixedNow)
	})).Return(nil).Once()

	p, hook := setupProcessor(t, repo)
	out := p.Process(context.Background(), "<script>alert(1)</script>", sanitization.Markup, md)

	assert.Equal(t, "<script>alert(1)</script>", out.Original)
	assert.Equal(t, "", out.Sanitized)
	assert.Equal(t, "html", out.Context)
	assert.True(t, out.Detection.IsSuspicious)
	assert.Equal(t, 10, out.Detection.Score)
	assert.Equal(t, []string{detection.RuleScriptTag}, out.Detection.MatchedRules)
	repo.AssertExpectations(t)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "suspicious input detected", hook.LastEntry().Message)
}

func TestProcessor_Process_EventHandler(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*attacklog.AttackLog")).Return(nil).Once()

	p, _ := setupProcessor(t, repo)
	out := p.Process(context.Background(), "<img src=x onerror=alert(1)>", sanitization.Markup, md)

	assert.Contains(t, out.Detection.MatchedRules, detection.RuleEventHandler)
	assert.GreaterOrEqual(t, out.Detection.Score, 8)
	assert.Equal(t, "", out.Sanitized)
	repo.AssertExpectations(t)
}

func TestProcessor_Process_BenignInputSkipsStore(t *testing.T) {
	repo := new(mocks.MockRepository)

	p, hook := setupProcessor(t, repo)
	out := p.Process(context.Background(), "Hello <b>world</b>", sanitization.Markup, md)

	assert.False(t, out.Detection.IsSuspicious)
	assert.Zero(t, out.Detection.Score)
	assert.Empty(t, out.Detection.MatchedRules)
	assert.Equal(t, "Hello <b>world</b>", out.Sanitized)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, hook.AllEntries())
}

func TestProcessor_Process_StoreFailureDoesNotSurface(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("Append", mock.Anything, mock.Anything).
		Return(domain.NewStoreError("append attack log", errors.New("disk full"))).Once()

	p, hook := setupProcessor(t, repo)
	out := p.Process(context.Background(), "<script>alert(1)</script>", sanitization.Markup, md)

	assert.True(t, out.Detection.IsSuspicious)
	assert.Equal(t, 10, out.Detection.Score)
	assert.Equal(t, "", out.Sanitized)
	repo.AssertExpectations(t)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "failed to record attack log", last.Message)
}

func TestProcessor_Process_UnexpectedErrorIsReportedAtErrorLevel(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	p, hook := setupProcessor(t, repo)
	out := p.Process(context.Background(), `<a href="javascript:alert(1)">x</a>`, sanitization.Markup, md)

	assert.Equal(t, []string{detection.RuleURIScheme}, out.Detection.MatchedRules)
	assert.Equal(t, "x", out.Sanitized)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestProcessor_Process_SanitizesForEveryContext(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil)

	p, _ := setupProcessor(t, repo)
	ctx := context.Background()

	assert.Equal(t, `a\"b\nc`, p.Process(ctx, "a\"b\nc", sanitization.ScriptString, md).Sanitized)
	assert.Equal(t, "a%20b%26c", p.Process(ctx, "a b&c", sanitization.URLComponent, md).Sanitized)
	assert.Equal(t, "Hello world", p.Process(ctx, "Hello <b>world</b>", sanitization.Unknown, md).Sanitized)

	out := p.Process(ctx, "<iframe src=x></iframe>", sanitization.URLComponent, md)
	assert.True(t, out.Detection.IsSuspicious)
	assert.Equal(t, "%3Ciframe%20src%3Dx%3E%3C%2Fiframe%3E", out.Sanitized)
	assert.Equal(t, "url", out.Context)
}

func TestProcessor_Process_EmptyInput(t *testing.T) {
	repo := new(mocks.MockRepository)

	p, _ := setupProcessor(t, repo)
	out := p.Process(context.Background(), "", sanitization.Markup, md)

	assert.Equal(t, "", out.Sanitized)
	assert.False(t, out.Detection.IsSuspicious)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
