package forumdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveWithin(t *testing.T) {
	t.Run("moves up one step", func(t *testing.T) {
		// A forum at position 2 of 5, moved up, lands at position 1 and the
		// result stays a contiguous permutation.
		result := MoveWithin([]int{10, 20, 30, 40, 50}, 30, -1)
		assert.Equal(t, []int{10, 30, 20, 40, 50}, result)
		assert.ElementsMatch(t, []int{10, 20, 30, 40, 50}, result)
	})

	t.Run("moves down one step", func(t *testing.T) {
		result := MoveWithin([]int{10, 20, 30, 40, 50}, 30, 1)
		assert.Equal(t, []int{10, 20, 40, 30, 50}, result)
	})

	t.Run("clamps at the top", func(t *testing.T) {
		result := MoveWithin([]int{10, 20, 30}, 10, -1)
		assert.Equal(t, []int{10, 20, 30}, result)
	})

	t.Run("clamps at the bottom", func(t *testing.T) {
		result := MoveWithin([]int{10, 20, 30}, 30, 1)
		assert.Equal(t, []int{10, 20, 30}, result)
	})

	t.Run("unknown id leaves the list alone", func(t *testing.T) {
		result := MoveWithin([]int{10, 20, 30}, 99, -1)
		assert.Equal(t, []int{10, 20, 30}, result)
	})

	t.Run("single element", func(t *testing.T) {
		assert.Equal(t, []int{10}, MoveWithin([]int{10}, 10, 1))
	})
}
