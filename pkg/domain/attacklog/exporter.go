package attacklog

import "context"

// Exporter forwards recorded attacks to a secondary sink such as a message bus.
type Exporter interface {
	Name() string
	Export(ctx context.Context, entry *AttackLog) error
	Close()
}
