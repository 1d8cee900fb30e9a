package nkit

type options struct {
	logger                *Logger
	metricsCollector      MetricsCollector
	indexBuildConcurrency int
}

// Option configures tables and grouped table builders.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:                NoopLogger(),
		metricsCollector:      NoopMetricsCollector{},
		indexBuildConcurrency: 4,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithIndexBuildConcurrency bounds the number of initial index scans
// Table.CreateIndices runs at once. Values below 1 mean 1.
func WithIndexBuildConcurrency(n int) Option {
	return func(o *options) {
		o.indexBuildConcurrency = max(1, n)
	}
}
