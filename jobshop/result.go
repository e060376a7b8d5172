package jobshop

// ResultMap is a mapping from string key to numeric, string, or nested
// map value — the output of one scenario run and the unit aggregated
// by the experiment driver (spec.md §6).
type ResultMap map[string]any

// Reserved keys populated by the kernel itself; statistics collectors
// must not write these (spec.md §6).
const (
	ResultSimTime    = "simTime"
	ResultException  = "EXCEPTION"
	ResultExceptionMessage = "EXCEPTION_MESSAGE"
	ResultAbortCount = "abortCount"
)

// Set writes key into the map, failing with DuplicateResultKeyError if
// already present — the collision policy named in spec.md §6.
func (r ResultMap) Set(key string, value any) error {
	if _, exists := r[key]; exists {
		return &DuplicateResultKeyError{Key: key}
	}
	r[key] = value
	return nil
}

// MustSet is Set but panics on collision — for kernel-owned reserved
// keys, where a collision is a programmer error, not a recoverable
// per-collector condition.
func (r ResultMap) MustSet(key string, value any) {
	if err := r.Set(key, value); err != nil {
		panic(err)
	}
}
