package cluster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0}, {0.9, 0.1}, {1.1, -0.1},
		{0, 1}, {0.1, 0.9}, {-0.1, 1.1},
	}
}

func TestKMeansEmptyInput(t *testing.T) {
	require.Nil(t, KMeans(nil, 3, rand.New(rand.NewSource(1))))
	require.Nil(t, KMeans(testVectors(), 0, rand.New(rand.NewSource(1))))
}

func TestKMeansSingleCluster(t *testing.T) {
	assign := KMeans(testVectors(), 1, rand.New(rand.NewSource(1)))
	require.Len(t, assign, 6)
	for _, c := range assign {
		require.Equal(t, 0, c)
	}
}

func TestKMeansAssignmentBounds(t *testing.T) {
	k := 3
	assign := KMeans(testVectors(), k, rand.New(rand.NewSource(7)))
	require.Len(t, assign, 6)
	for _, c := range assign {
		require.GreaterOrEqual(t, c, 0)
		require.Less(t, c, k)
	}
}

func TestKMeansDeterministicWithSeed(t *testing.T) {
	first := KMeans(testVectors(), 2, rand.New(rand.NewSource(42)))
	second := KMeans(testVectors(), 2, rand.New(rand.NewSource(42)))
	require.Equal(t, first, second)
}

func TestKMeansIdenticalVectorsStayTogether(t *testing.T) {
	vectors := [][]float32{
		{1, 0}, {1, 0}, {1, 0},
		{0, 1}, {0, 1},
	}
	assign := KMeans(vectors, 2, rand.New(rand.NewSource(3)))
	require.Equal(t, assign[0], assign[1])
	require.Equal(t, assign[0], assign[2])
	require.Equal(t, assign[3], assign[4])
}
