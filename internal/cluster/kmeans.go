package cluster

import "math/rand"

const maxKMeansIterations = 100

// KMeans partitions vectors into k groups and returns the cluster index
// assigned to each input vector. Centroids start as uniform random points in
// [-1, 1] per component, drawn from rng so callers can seed deterministic
// runs. Iteration stops when no assignment changes or after
// maxKMeansIterations; convergence is not guaranteed, the cap bounds the
// loop.
func KMeans(vectors [][]float32, k int, rng *rand.Rand) []int {
	if len(vectors) == 0 || k <= 0 {
		return nil
	}
	dim := len(vectors[0])
	centroids := make([][]float64, k)
	for i := range centroids {
		centroids[i] = make([]float64, dim)
		for j := range centroids[i] {
			centroids[i][j] = rng.Float64()*2 - 1
		}
	}

	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		recomputeCentroids(vectors, assign, centroids)
	}
	return assign
}

func nearestCentroid(v []float32, centroids [][]float64) int {
	best := 0
	bestDist := -1.0
	for c, centroid := range centroids {
		dist := squaredDistance(v, centroid)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

func squaredDistance(v []float32, centroid []float64) float64 {
	var sum float64
	for i := range centroid {
		var x float64
		if i < len(v) {
			x = float64(v[i])
		}
		d := x - centroid[i]
		sum += d * d
	}
	return sum
}

// recomputeCentroids replaces each centroid with the component-wise mean of
// its members. A centroid with no members keeps its previous position.
func recomputeCentroids(vectors [][]float32, assign []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, len(centroids[i]))
	}
	for i, v := range vectors {
		c := assign[i]
		counts[c]++
		for j := range sums[c] {
			if j < len(v) {
				sums[c][j] += float64(v[j])
			}
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}
