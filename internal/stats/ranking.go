package stats

import "sort"

// MinRanks assigns competition ("min") ranks to values: rank 1 is the
// largest value, tied values share the rank of the first member of
// their tie group, and the next distinct value's rank reflects the
// number of rows above it. Ranks are returned aligned to input order.
func MinRanks(values []float64) []int {
	n := len(values)
	ranks := make([]int, n)
	if n == 0 {
		return ranks
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	rank := 1
	for pos, idx := range order {
		if pos > 0 && values[idx] != values[order[pos-1]] {
			rank = pos + 1
		}
		ranks[idx] = rank
	}

	return ranks
}
