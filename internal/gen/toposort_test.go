package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSort_Order(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 1:
			return []int{0}
		case 2:
			return []int{1}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTopoSort_Deterministic(t *testing.T) {
	// 0 depends on 3, the rest are free
	order, err := topoSort(4, func(i int) []int {
		if i == 0 {
			return []int{3}
		}

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0}, order)
}

func TestTopoSort_Errors(t *testing.T) {
	_, err := topoSort(2, func(i int) []int { return []int{1 - i} })
	require.Error(t, err)

	_, err = topoSort(1, func(int) []int { return []int{5} })
	require.Error(t, err)

	order, err := topoSort(0, nil)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestTopoSort_CycleError(t *testing.T) {
	_, err := topoSort(3, func(i int) []int {
		if i == 0 {
			return nil
		}

		return []int{3 - i}
	})
	require.ErrorIs(t, err, errCycle)
	assert.Contains(t, err.Error(), "among 2 contracts")
}
