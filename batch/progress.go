package batch

// ProgressSink receives one update after each job settles,
// regardless of success. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	Progress(completed, total int)
}

// ProgressFunc adapter
type ProgressFunc func(completed, total int)

func (f ProgressFunc) Progress(completed, total int) {
	f(completed, total)
}
