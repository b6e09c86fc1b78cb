package pipeline

// Check inspects a subject and an input. It resolves the pipeline by returning
// a non-nil result, or defers to the next check by returning nil. An error
// aborts the pipeline; no further checks are called.
type Check[S, I, R any] func(subject S, input I) (*R, error)

// State is the accumulator threaded through a pipeline. It is either
// unresolved, carrying the subject and input that the next check receives, or
// resolved, carrying the final result.
//
// State is a value type: binding returns a new State and never modifies the
// receiver.
type State[S, I, R any] struct {
	subject  S
	input    I
	result   *R
	resolved bool
	step     int
}

// Unresolved returns a new unresolved state. The fallback result is returned
// by Value if the pipeline completes without any check resolving it.
func Unresolved[S, I, R any](subject S, input I, fallback *R) State[S, I, R] {
	return State[S, I, R]{subject: subject, input: input, result: fallback, step: -1}
}

// Resolved returns a state already resolved with result.
func Resolved[S, I, R any](result *R) State[S, I, R] {
	return State[S, I, R]{result: result, resolved: true, step: -1}
}

// IsResolved reports whether a check has produced a result.
func (s State[S, I, R]) IsResolved() bool {
	return s.resolved
}

// Value returns the carried result. For an unresolved state this is the
// fallback.
func (s State[S, I, R]) Value() *R {
	return s.result
}

// Step returns the index of the check that resolved the state during Run, or
// -1 if the state is unresolved or was resolved by other means.
func (s State[S, I, R]) Step() int {
	return s.step
}

// Bind applies check to the state. A resolved state is returned unchanged and
// check is not called.
func (s State[S, I, R]) Bind(check Check[S, I, R]) (State[S, I, R], error) {
	if s.resolved {
		return s, nil
	}

	result, err := check(s.subject, s.input)
	if err != nil {
		return s, err
	}
	if result == nil {
		return s, nil
	}

	return State[S, I, R]{result: result, resolved: true, step: s.step}, nil
}

// Run folds checks over state from left to right, stopping at the first check
// that resolves it or returns an error. On error, the returned state is the one
// held before the failing check ran.
func Run[S, I, R any](state State[S, I, R], checks ...Check[S, I, R]) (State[S, I, R], error) {
	for i, check := range checks {
		if state.resolved {
			break
		}

		next, err := state.Bind(check)
		if err != nil {
			return state, err
		}
		if next.resolved {
			next.step = i
		}
		state = next
	}

	return state, nil
}
