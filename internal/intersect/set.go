package intersect

// Intersect keeps the elements of sets[0] that every other set contains an
// equal of, in sets[0] order. Everything else from sets[0] is returned as
// removed, also in order. The inputs are not modified.
func Intersect[T any](sets [][]T, eq func(a, b T) bool) (kept, removed []T) {
	if len(sets) == 0 {
		return nil, nil
	}
	for _, e := range sets[0] {
		if inAll(e, sets[1:], eq) {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	return kept, removed
}

func inAll[T any](e T, others [][]T, eq func(a, b T) bool) bool {
	for _, set := range others {
		found := false
		for _, x := range set {
			if eq(e, x) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
