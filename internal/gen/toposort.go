package gen

import (
	"errors"
	"fmt"
	"slices"
)

var errCycle = errors.New("cycle detected")

// topoSort orders the indices 0..n-1 so that every index comes after the
// indices depsFn reports for it. Among the indices ready at each step the
// smallest one is taken, so equal inputs always give the same order.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	deps := make([][]int, n)
	for i := range deps {
		deps[i] = depsFn(i)

		if slices.ContainsFunc(deps[i], func(d int) bool { return d < 0 || d >= n }) {
			return nil, fmt.Errorf("dependency index out of range: %d depends on %v", i, deps[i])
		}
	}

	placed := make([]bool, n)
	ready := func(i int) bool {
		return !placed[i] && !slices.ContainsFunc(deps[i], func(d int) bool { return !placed[d] })
	}

	order := make([]int, 0, n)
	for len(order) < n {
		next := -1
		for i := range n {
			if ready(i) {
				next = i
				break
			}
		}

		if next < 0 {
			return nil, fmt.Errorf("%w among %d contracts", errCycle, n-len(order))
		}

		placed[next] = true
		order = append(order, next)
	}

	return order, nil
}
