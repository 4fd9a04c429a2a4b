package cluster

import (
	"math"
	"math/rand"
)

const maxIterations = 100

// standardize rescales each column to zero mean and unit variance,
// independently. A constant column standardizes to all zeros.
func standardize(matrix [][]float64) [][]float64 {
	if len(matrix) == 0 {
		return nil
	}
	cols := len(matrix[0])
	n := float64(len(matrix))

	means := make([]float64, cols)
	for _, row := range matrix {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	stds := make([]float64, cols)
	for _, row := range matrix {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = make([]float64, cols)
		for j, v := range row {
			if stds[j] == 0 {
				continue
			}
			out[i][j] = (v - means[j]) / stds[j]
		}
	}
	return out
}

// kmeans runs Lloyd's algorithm with k clusters over the rows of matrix,
// seeded deterministically. Returns the assignment per row and the final
// centroids. Requires len(matrix) >= k.
func kmeans(matrix [][]float64, k int, seed int64) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(seed))
	cols := len(matrix[0])

	// Farthest-point initialization: a seeded first pick, then each next
	// centroid is the row farthest from all chosen ones. Keeps well
	// separated groups from sharing a centroid.
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), matrix[rng.Intn(len(matrix))]...))
	for len(centroids) < k {
		far := 0
		farDist := -1.0
		for i, row := range matrix {
			d := squaredDistance(row, centroids[nearestCentroid(row, centroids)])
			if d > farDist {
				farDist = d
				far = i
			}
		}
		centroids = append(centroids, append([]float64(nil), matrix[far]...))
	}

	assignments := make([]int, len(matrix))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, row := range matrix {
			best := nearestCentroid(row, centroids)
			if assignments[i] != best || iter == 0 {
				assignments[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, cols)
		}
		for i, row := range matrix {
			c := assignments[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed an emptied cluster on the row farthest from
				// its current centroid.
				far := farthestRow(matrix, centroids, assignments)
				assignments[far] = c
				centroids[c] = append([]float64(nil), matrix[far]...)
				changed = true
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed {
			break
		}
	}

	return assignments, centroids
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		d := squaredDistance(row, centroid)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestRow(matrix [][]float64, centroids [][]float64, assignments []int) int {
	far := 0
	farDist := -1.0
	for i, row := range matrix {
		d := squaredDistance(row, centroids[assignments[i]])
		if d > farDist {
			farDist = d
			far = i
		}
	}
	return far
}

func squaredDistance(a, b []float64) float64 {
	total := 0.0
	for j := range a {
		d := a[j] - b[j]
		total += d * d
	}
	return total
}
