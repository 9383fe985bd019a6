package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))
	}
	{ // Directed edges keep their orientation
		e := NewEdgeInt([2]int{7, 3})
		assert.True(t, e < 0)
		assert.Equal(t, [2]int{7, 3}, e.GetVertices())
		assert.Equal(t, NewEdgeKey([2]int{3, 7}), e.GetKey())
		e = NewEdgeInt([2]int{3, 7})
		assert.Equal(t, [2]int{3, 7}, e.GetVertices())
		assert.Panics(t, func() { NewEdgeInt([2]int{-1, 2}) })
	}
	{ // Triangle keys ignore vertex order
		tk := NewTriKey([3]int{9, 2, 5})
		assert.Equal(t, tk, NewTriKey([3]int{5, 9, 2}))
		assert.Equal(t, [3]int{2, 5, 9}, tk.GetVertices())
		assert.Panics(t, func() { NewTriKey([3]int{0, 1, 1 << 21}) })
	}
	{
		s := GrowSlice([]EdgeInt{1, 2}, 4)
		assert.Equal(t, []EdgeInt{1, 2, 0, 0}, s)
		assert.Equal(t, 2, len(GrowSlice([]int{1, 2}, 1)))
	}
}
