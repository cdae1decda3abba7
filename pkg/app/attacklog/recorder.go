package attacklog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	domainAttackLog "github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize     = 1000
	defaultExportTimeout = 5 * time.Second
)

// Recorder persists attack logs to the primary store and then hands them to
// the configured exporters in the background. Only the primary write can fail
// the call; exporter errors are logged.
type Recorder interface {
	domainAttackLog.Recorder
	StartWorkers(n int)
	Shutdown()
}

type recorder struct {
	logger        *logrus.Logger
	primary       domainAttackLog.Recorder
	exporters     []domainAttackLog.Exporter
	taskChan      chan *domainAttackLog.AttackLog
	exportTimeout time.Duration
	wg            sync.WaitGroup
	closed        atomic.Bool
	mu            sync.RWMutex
}

func NewRecorder(
	logger *logrus.Logger,
	primary domainAttackLog.Recorder,
	exporters ...domainAttackLog.Exporter,
) Recorder {
	return &recorder{
		logger:        logger,
		primary:       primary,
		exporters:     exporters,
		taskChan:      make(chan *domainAttackLog.AttackLog, defaultQueueSize),
		exportTimeout: defaultExportTimeout,
	}
}

func (r *recorder) Append(ctx context.Context, entry *domainAttackLog.AttackLog) error {
	if err := r.primary.Append(ctx, entry); err != nil {
		return err
	}
	if len(r.exporters) > 0 {
		r.enqueue(entry)
	}
	return nil
}

func (r *recorder) enqueue(entry *domainAttackLog.AttackLog) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed.Load() {
		return
	}
	select {
	case r.taskChan <- entry:
	default:
		prometheus.AttackLogFailuresTotal.WithLabelValues("queue").Inc()
		r.logger.WithField("attack_log_id", entry.ID.String()).Warn("export queue full, dropping attack event")
	}
}

func (r *recorder) StartWorkers(n int) {
	for i := 0; i < n; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for entry := range r.taskChan {
				r.export(entry)
			}
		}()
	}
}

func (r *recorder) export(entry *domainAttackLog.AttackLog) {
	for _, exp := range r.exporters {
		ctx, cancel := context.WithTimeout(context.Background(), r.exportTimeout)
		err := exp.Export(ctx, entry)
		cancel()
		if err != nil {
			prometheus.AttackLogFailuresTotal.WithLabelValues(exp.Name()).Inc()
			r.logger.WithFields(logrus.Fields{
				"exporter":      exp.Name(),
				"attack_log_id": entry.ID.String(),
			}).WithError(err).Warn("failed to export attack event")
		}
	}
}

// Shutdown stops accepting events, drains the queue and closes the exporters.
func (r *recorder) Shutdown() {
	r.mu.Lock()
	if r.closed.Swap(true) {
		r.mu.Unlock()
		return
	}
	close(r.taskChan)
	r.mu.Unlock()

	r.wg.Wait()
	for _, exp := range r.exporters {
		exp.Close()
	}
	r.logger.Info("attack log exporters stopped")
}
