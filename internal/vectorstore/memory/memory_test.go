package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/vectorstore"
)

func TestIndex_SearchOrdersByDistance(t *testing.T) {
	idx, err := Build([][]float32{{0, 0}, {3, 4}, {1, 0}, {0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, 2, idx.Dimension())

	hits, err := idx.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []vectorstore.Hit{
		{Position: 0, Distance: 0},
		{Position: 2, Distance: 1},
		{Position: 3, Distance: 4},
	}, hits)
}

func TestIndex_TiesPreferLowerPosition(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}})
	require.NoError(t, err)
	hits, err := idx.Search([]float32{0, 0}, 4)
	require.NoError(t, err)
	for i, h := range hits {
		assert.Equal(t, i, h.Position)
		assert.Equal(t, 1.0, h.Distance)
	}
}

func TestIndex_KIsClamped(t *testing.T) {
	idx, err := Build([][]float32{{1}, {2}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{2}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Position)

	hits, err = idx.Search([]float32{2}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Deterministic(t *testing.T) {
	idx, err := Build([][]float32{{0.1, 0.2}, {0.3, 0.1}, {0.2, 0.2}})
	require.NoError(t, err)
	a, err := idx.Search([]float32{0.2, 0.15}, 3)
	require.NoError(t, err)
	b, err := idx.Search([]float32{0.2, 0.15}, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_Validation(t *testing.T) {
	_, err := Build([][]float32{{1, 2}, {1}})
	assert.ErrorContains(t, err, "dimension mismatch")

	_, err = Build([][]float32{{}})
	assert.Error(t, err)

	idx, err := Build(nil)
	require.NoError(t, err)
	hits, err := idx.Search([]float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_QueryDimensionMismatch(t *testing.T) {
	idx, err := Build([][]float32{{1, 2}})
	require.NoError(t, err)
	_, err = idx.Search([]float32{1}, 1)
	assert.Error(t, err)
}

func TestIndex_IsIsolatedFromCallerSlices(t *testing.T) {
	src := [][]float32{{1, 1}}
	idx, err := Build(src)
	require.NoError(t, err)
	src[0][0] = 9
	assert.Equal(t, []float32{1, 1}, idx.Vector(0))

	v := idx.Vector(0)
	v[1] = 7
	assert.Equal(t, []float32{1, 1}, idx.Vector(0))
	assert.Nil(t, idx.Vector(5))
}
