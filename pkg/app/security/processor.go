package security

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/domain"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
	"github.com/sirupsen/logrus"
)

// Metadata describes where a submission came from.
type Metadata struct {
	SourceAddress string
	ClientAgent   string
}

// Outcome is what the pipeline hands back for one input.
type Outcome struct {
	Original  string           `json:"original"`
	Sanitized string           `json:"sanitized"`
	Context   string           `json:"context"`
	Detection detection.Result `json:"detection"`
}

type Detector interface {
	Detect(text string) detection.Result
}

type Sanitizer interface {
	Sanitize(text string, ctx sanitization.Context) string
}

// Processor runs detection, attack logging and sanitization for one input.
// It never fails: a failed attack-log write is logged and the call goes on.
type Processor interface {
	Process(ctx context.Context, text string, sctx sanitization.Context, md Metadata) Outcome
}

type processor struct {
	logger    *logrus.Logger
	detector  Detector
	sanitizer Sanitizer
	recorder  attacklog.Recorder
	now       func() time.Time
}

type Option func(*processor)

// WithClock replaces the timestamp source used for attack log entries.
func WithClock(now func() time.Time) Option {
	return func(p *processor) {
		p.now = now
	}
}

func NewProcessor(
	logger *logrus.Logger,
	detector Detector,
	sanitizer Sanitizer,
	recorder attacklog.Recorder,
	opts ...Option,
) Processor {
	p := &processor{
		logger:    logger,
		detector:  detector,
		sanitizer: sanitizer,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *processor) Process(ctx context.Context, text string, sctx sanitization.Context, md Metadata) Outcome {
	result := p.detector.Detect(text)

	prometheus.SubmissionsTotal.WithLabelValues(sctx.String(), strconv.FormatBool(result.IsSuspicious)).Inc()

	if result.IsSuspicious {
		p.record(ctx, text, result, md)
	}

	return Outcome{
		Original:  text,
		Sanitized: p.sanitizer.Sanitize(text, sctx),
		Context:   sctx.String(),
		Detection: result,
	}
}

func (p *processor) record(ctx context.Context, text string, result detection.Result, md Metadata) {
	p.logger.WithFields(logrus.Fields{
		"source_address": md.SourceAddress,
		"score":          result.Score,
		"matched_rules":  result.MatchedRules,
	}).Warn("suspicious input detected")

	prometheus.RiskScore.Observe(float64(result.Score))
	for _, rule := range result.MatchedRules {
		prometheus.RuleMatchesTotal.WithLabelValues(rule).Inc()
	}

	entry := &attacklog.AttackLog{
		Payload:      text,
		AttackType:   result.PrimaryRule(),
		RiskScore:    result.Score,
		MatchedRules: append(attacklog.MatchedRules{}, result.MatchedRules...),
		IPAddress:    md.SourceAddress,
		UserAgent:    md.ClientAgent,
		Timestamp:    p.now(),
	}

	err := p.recorder.Append(ctx, entry)
	if err == nil {
		return
	}
	prometheus.AttackLogFailuresTotal.WithLabelValues("primary").Inc()

	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		p.logger.WithError(err).WithField("op", storeErr.Op).Warn("failed to record attack log")
		return
	}
	p.logger.WithError(err).Error("unexpected error recording attack log")
}
