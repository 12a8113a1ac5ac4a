package analysis

import "sort"

// tally counts string occurrences while remembering the order keys were first
// seen, so frequency ranking can break ties deterministically.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) count(key string) int {
	return t.counts[key]
}

// ranked returns all keys sorted by descending count; ties keep first-seen
// order.
func (t *tally) ranked() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	return keys
}

// atLeast returns, in first-seen order, every key counted at least min times.
func (t *tally) atLeast(min int) []string {
	var keys []string
	for _, key := range t.order {
		if t.counts[key] >= min {
			keys = append(keys, key)
		}
	}
	return keys
}
