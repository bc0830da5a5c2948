package rsc

// The timeless engine is a generic journaled change log. It is the one
// piece of machinery that makes single-stepping backward through a run
// possible: every mutation a cell collection makes is first recorded here,
// keyed by the step counter in effect at the time, so that undoing a step
// is just replaying those records in reverse.
//
// A dense slice indexed by step counter is used instead of a map: step
// counters are contiguous starting at 0, appends are O(1), and backward
// traversal can drain a bucket in place without any bounds bookkeeping
// beyond the slice length.

// Journal is parameterized by the change-record type T. The register file
// journals (Reg, uint32) pairs; memory journals (uint32, uint32) address/
// value pairs. A single untyped change list with a discriminator would
// also work, but the typed variant catches restore-loop mistakes at
// compile time, so it's what's used here.
type Journal[T any] struct {
	buckets [][]T
	step    int
}

// NewJournal returns a journal positioned at step 0 with an empty bucket
// ready to receive changes.
func NewJournal[T any]() *Journal[T] {
	return &Journal[T]{buckets: make([][]T, 1)}
}

// AddChange appends a change record to the bucket for the current step.
func (j *Journal[T]) AddChange(c T) {
	j.buckets[j.step] = append(j.buckets[j.step], c)
}

// StepForward advances the step counter by one. It never alters recorded
// history; it only ensures a fresh bucket exists to receive changes at the
// new step.
func (j *Journal[T]) StepForward() {
	j.step++
	if j.step >= len(j.buckets) {
		j.buckets = append(j.buckets, nil)
	}
}

// StepBackward rewinds the step counter by one and returns the bucket of
// changes recorded for the step being undone. If the counter is already
// at 0 it is a no-op and the second return value is false. The returned
// bucket is drained from the journal: a consumed bucket is never replayed.
//
// The caller must restore state by iterating the returned slice in
// reverse order of insertion, writing each prior value back to the cell
// it names. That's the only way undo stays correct when a single step
// touches the same cell more than once.
func (j *Journal[T]) StepBackward() ([]T, bool) {
	if j.step == 0 {
		return nil, false
	}
	j.step--
	bucket := j.buckets[j.step]
	j.buckets[j.step] = nil
	return bucket, true
}

// Step returns the current step counter.
func (j *Journal[T]) Step() int {
	return j.step
}
