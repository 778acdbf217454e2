package plan

import "sync"

// Failure pairs a variant identifier with the error that stopped it.
type Failure struct {
	Variant string
	Err     error
}

// Batch is the result of one build request.
type Batch struct {
	Plans    []*PackagingPlan
	Failures []Failure
	// Skipped lists variants that were never started because the request
	// was cancelled.
	Skipped []string
}

// OK reports whether every requested variant produced a plan.
func (b *Batch) OK() bool {
	return len(b.Failures) == 0 && len(b.Skipped) == 0
}

// Sink collects failures from concurrent workers. The zero value is ready
// to use.
type Sink struct {
	mu       sync.Mutex
	failures []Failure
}

// Add records a failure.
func (s *Sink) Add(variantID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, Failure{Variant: variantID, Err: err})
}

// Failures returns a copy of the recorded failures in arrival order.
func (s *Sink) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Failure(nil), s.failures...)
}

// Len returns the number of recorded failures.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures)
}
