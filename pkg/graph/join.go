package graph

import "sync"

// Join is an N-of-N rendezvous keyed by contributor identity. Contributions
// accumulate until every expected key has reported, at which point Add
// returns the complete set exactly once and the accumulator resets so the
// same Join can serve a subsequent run. A repeated key overwrites the
// previous contribution rather than advancing the count.
//
// Join serializes its own state, so contributions arriving from parallel
// branches never race the check-and-fire step.
type Join[K comparable, V any] struct {
	mu    sync.Mutex
	arity int
	parts map[K]V
}

// NewJoin creates a Join that fires once arity distinct keys have contributed.
func NewJoin[K comparable, V any](arity int) *Join[K, V] {
	return &Join[K, V]{arity: arity}
}

// Add records a contribution. When the arity is satisfied it returns the
// accumulated contributions and true, and resets the accumulator; otherwise
// it returns nil and false.
func (j *Join[K, V]) Add(key K, value V) (map[K]V, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.parts == nil {
		j.parts = make(map[K]V, j.arity)
	}
	j.parts[key] = value

	if len(j.parts) < j.arity {
		return nil, false
	}

	complete := j.parts
	j.parts = nil
	return complete, true
}

// Pending returns the number of contributions accumulated so far.
func (j *Join[K, V]) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.parts)
}
