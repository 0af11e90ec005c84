// Package matching finds perfect matchings in small bipartite graphs.
//
// Rounds are modelled as a bipartite graph with givers on the left, recipients
// on the right, and an edge wherever the roster allows the pair. A round
// exists exactly when this graph has a perfect matching.
package matching

import (
	"math/rand/v2"

	"github.com/kpister/elf/types"
)

// Graph is a bipartite graph over n left and n right vertices.
type Graph struct {
	n   int
	adj [][]int
}

// FromRoster builds the allowed-pair graph for the roster's next round.
//
// Vertex i on both sides is the i-th participant in roster order.
func FromRoster(r *types.Roster) *Graph {
	names := r.Names()
	g := &Graph{n: len(names), adj: make([][]int, len(names))}

	for i, giver := range names {
		for j, recipient := range names {
			if r.Allowed(giver, recipient) {
				g.adj[i] = append(g.adj[i], j)
			}
		}
	}

	return g
}

// Perfect returns a perfect matching as match[left] = right.
//
// When rng is non-nil the visiting order of left vertices and their edges is
// shuffled, so repeated calls explore different matchings. Uses Kuhn's
// augmenting-path algorithm, which is O(V·E) and fine for groups of tens.
//
// Returns:
//   - []int: Right vertex matched to each left vertex (nil if none)
//   - bool: false when no perfect matching exists
func (g *Graph) Perfect(rng *rand.Rand) ([]int, bool) {
	adj := g.adj
	order := make([]int, g.n)
	for i := range order {
		order[i] = i
	}

	if rng != nil {
		adj = make([][]int, g.n)
		for i, edges := range g.adj {
			adj[i] = append([]int(nil), edges...)
			rng.Shuffle(len(adj[i]), func(a, b int) { adj[i][a], adj[i][b] = adj[i][b], adj[i][a] })
		}
		rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
	}

	owner := make([]int, g.n) // owner[right] = left, -1 if free
	for i := range owner {
		owner[i] = -1
	}

	for _, left := range order {
		visited := make([]bool, g.n)
		if !augment(adj, left, visited, owner) {
			return nil, false
		}
	}

	match := make([]int, g.n)
	for right, left := range owner {
		match[left] = right
	}

	return match, true
}

func augment(adj [][]int, left int, visited []bool, owner []int) bool {
	for _, right := range adj[left] {
		if visited[right] {
			continue
		}
		visited[right] = true

		if owner[right] == -1 || augment(adj, owner[right], visited, owner) {
			owner[right] = left
			return true
		}
	}

	return false
}

// Feasible reports whether the roster's next round can be drawn at all.
func Feasible(r *types.Roster) bool {
	_, ok := FromRoster(r).Perfect(nil)
	return ok
}
