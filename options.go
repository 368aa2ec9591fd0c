package poolgo

import (
	"github.com/hupe1980/poolgo/resource"
)

// DefaultBatchSize is the number of slots allocated per segment when no
// batch size is configured.
const DefaultBatchSize = 64

type options struct {
	batchSize        int
	alignToCacheLine bool
	trackOccupancy   bool
	controller       *resource.Controller
	logger           *Logger
}

func defaultOptions() options {
	return options{
		batchSize: DefaultBatchSize,
	}
}

// Option configures pool construction.
type Option func(*options)

// WithBatchSize sets how many slots each segment holds. Larger batches grow
// less often but waste more memory when few slots are actually used.
// Must be positive; New rejects other values.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithCacheLineAlignment widens the per-slot stride so no two slots ever
// share a CPU cache line. This avoids false sharing when values in adjacent
// slots are mutated from different goroutines, at the cost of extra memory
// for elements smaller than a cache line.
func WithCacheLineAlignment() Option {
	return func(o *options) {
		o.alignToCacheLine = true
	}
}

// WithOccupancyTracking records live slot indices in a bitmap, enabling
// Occupied() snapshots and leak counts in Close errors. Tracking adds a
// mutex-guarded bitmap update to every insert and release; leave it off in
// production hot paths.
func WithOccupancyTracking() Option {
	return func(o *options) {
		o.trackOccupancy = true
	}
}

// WithController attaches a resource controller. Segment allocations reserve
// their bytes from the controller's memory budget and pass its growth
// limiter; Close returns the reservation. Several pools may share one
// controller.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithLogger sets the structured logger for growth and teardown events.
// Default: no logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
