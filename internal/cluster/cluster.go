// Package cluster partitions qualifying players into style archetypes.
//
// Feature rows are standardized column-wise, clustered with k-means under a
// fixed seed, and labeled by centroid position: tightness from VPIP,
// aggression from the passive-action share. Labels come from the centroids,
// not the raw cluster index order, since k-means index ordering carries no
// semantic meaning across datasets.
package cluster

import (
	"fmt"
	"sort"
)

const (
	// DefaultClusters is the fixed archetype count.
	DefaultClusters = 4
	// DefaultSeed keeps reruns reproducible.
	DefaultSeed = 42
)

// The four archetypes, Tight/Loose crossed with Aggressive/Passive.
const (
	LabelTAG     = "Tight Aggressive (TAG)"
	LabelNIT     = "Tight Passive (NIT)"
	LabelLAG     = "Loose Aggressive (LAG)"
	LabelStation = "Loose Passive (Calling Station)"
)

// Point is one qualifying player's feature vector. Aggression is the share
// of classified actions that were passive, so a higher value means a more
// passive player.
type Point struct {
	PlayerID    string
	VPIP        float64
	Aggression  float64
	ShowdownWin float64
}

// Assignment maps a player to a cluster and its archetype label.
type Assignment struct {
	PlayerID  string
	Cluster   int
	Archetype string
}

// Opts configures a clustering run.
type Opts struct {
	Clusters int
	Seed     int64
}

// DefaultOpts returns the fixed four-cluster, seeded configuration.
func DefaultOpts() Opts {
	return Opts{Clusters: DefaultClusters, Seed: DefaultSeed}
}

// InsufficientDataError reports fewer qualifying players than clusters.
// Clustering fails loudly rather than producing degenerate clusters.
type InsufficientDataError struct {
	Players  int
	Clusters int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%d qualifying players for %d clusters", e.Players, e.Clusters)
}

// Assign clusters the given points and labels each cluster. The input
// order does not affect the result beyond player order in the output,
// which follows the input.
func Assign(points []Point, opts Opts) ([]Assignment, error) {
	if opts.Clusters <= 0 {
		opts.Clusters = DefaultClusters
	}
	if len(points) < opts.Clusters {
		return nil, &InsufficientDataError{Players: len(points), Clusters: opts.Clusters}
	}

	matrix := make([][]float64, len(points))
	for i, p := range points {
		matrix[i] = []float64{p.VPIP, p.Aggression, p.ShowdownWin}
	}

	assignments, _ := kmeans(standardize(matrix), opts.Clusters, opts.Seed)
	labels := labelClusters(points, assignments, opts.Clusters)

	out := make([]Assignment, len(points))
	for i, p := range points {
		out[i] = Assignment{
			PlayerID:  p.PlayerID,
			Cluster:   assignments[i],
			Archetype: labels[assignments[i]],
		}
	}
	return out, nil
}

// labelClusters names each cluster from its centroid in original feature
// units. With four clusters, the two lowest-VPIP clusters are Tight and the
// rest Loose; within each pair the lower passive share is Aggressive. Other
// cluster counts get positional names.
func labelClusters(points []Point, assignments []int, k int) []string {
	labels := make([]string, k)
	if k != DefaultClusters {
		for c := range labels {
			labels[c] = fmt.Sprintf("Cluster %d", c)
		}
		return labels
	}

	vpip := make([]float64, k)
	passive := make([]float64, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		vpip[c] += p.VPIP
		passive[c] += p.Aggression
		counts[c]++
	}
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			vpip[c] /= float64(counts[c])
			passive[c] /= float64(counts[c])
		}
	}

	byVPIP := []int{0, 1, 2, 3}
	sort.Slice(byVPIP, func(i, j int) bool { return vpip[byVPIP[i]] < vpip[byVPIP[j]] })

	tight, loose := byVPIP[:2], byVPIP[2:]
	labelPair(labels, tight, passive, LabelTAG, LabelNIT)
	labelPair(labels, loose, passive, LabelLAG, LabelStation)
	return labels
}

func labelPair(labels []string, pair []int, passive []float64, aggressive, passiveLabel string) {
	a, b := pair[0], pair[1]
	if passive[a] > passive[b] {
		a, b = b, a
	}
	labels[a] = aggressive
	labels[b] = passiveLabel
}
