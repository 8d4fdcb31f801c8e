package batch

import (
	"sort"
	"sync"
)

// Outcome one produced output
type Outcome struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Path  string `json:"-"`
	Size  int64  `json:"size"`
}

// Failure one recorded per-job error
type Failure struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result aggregate outcome of a batch. Every job index lands in
// exactly one of the two slices.
type Result struct {
	Succeeded []Outcome `json:"succeeded"`
	Failed    []Failure `json:"failed"`

	mu    sync.Mutex
	total int
	done  int
}

func newResult(total int) *Result {
	return &Result{total: total}
}

// Total ...
func (r *Result) Total() int {
	return r.total
}

// ok records a success and reports progress while still holding the
// lock, keeping the completed count monotonic across workers.
func (r *Result) ok(o Outcome, sink ProgressSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Succeeded = append(r.Succeeded, o)
	r.done++
	if sink != nil {
		sink.Progress(r.done, r.total)
	}
}

func (r *Result) fail(f Failure, sink ProgressSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, f)
	r.done++
	if sink != nil {
		sink.Progress(r.done, r.total)
	}
}

// sortByIndex stable presentation order after the pool drains
func (r *Result) sortByIndex() {
	sort.Slice(r.Succeeded, func(i, j int) bool { return r.Succeeded[i].Index < r.Succeeded[j].Index })
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Index < r.Failed[j].Index })
}
