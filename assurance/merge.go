package assurance

// firstDefined probes sources in their fixed priority order and returns the
// first defined result. This is the merge rule for every field except the
// verified flag.
func firstDefined[T any](sources []Source, probe func(Source) (T, bool)) (T, bool) {
	for _, s := range sources {
		if v, ok := probe(s); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// anyVerified is the merge rule for the verified flag: logical OR across all
// sources. A single source asserting verification is sufficient, regardless
// of its priority position.
func anyVerified(sources []Source) bool {
	for _, s := range sources {
		if v, ok := s.VerifiedFlag(); ok && v {
			return true
		}
	}
	return false
}
