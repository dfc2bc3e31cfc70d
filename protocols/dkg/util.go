package dkg

import "sort"

// sortedKeys returns a map's int keys in ascending order. Used whenever the
// protocol must process received payloads "in ordinal order", which every
// participant can reproduce identically regardless of arrival order.
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
