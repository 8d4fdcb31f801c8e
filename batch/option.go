package batch

// Option ...
type Option func(*runner)

// WithSink injects a progress sink
func WithSink(sink ProgressSink) Option {
	return func(s *runner) {
		s.sink = sink
	}
}

// WithWorkers overrides the pool size of the job options
func WithWorkers(n int) Option {
	return func(s *runner) {
		s.workers = n
	}
}
