package attacklog

import "context"

// Recorder is the write side used by the processing pipeline.
type Recorder interface {
	Append(ctx context.Context, entry *AttackLog) error
}

type Repository interface {
	Recorder
	CountAll(ctx context.Context) (int64, error)
	DistributionByType(ctx context.Context) (map[string]int64, error)
	Recent(ctx context.Context, limit int) ([]AttackLog, error)
	HighRisk(ctx context.Context, threshold int) ([]AttackLog, error)
}
