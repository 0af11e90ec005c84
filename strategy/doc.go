// Package strategy provides built-in draw strategy implementations.
//
// Draw strategies propose one complete round of giver → recipient pairs for a
// roster. The package includes two built-in strategies:
//
//   - RejectionSampler: Shuffle all names, zip with roster order, discard and retry on any violation (default)
//   - Matching: Randomized bipartite matching over allowed pairs
//
// # Strategy Selection Guide
//
// RejectionSampler:
//   - Every valid round is equally likely (rejection from uniform permutations)
//   - Cost grows as constraints tighten; bounded by a retry budget
//   - Configuration: max attempts, random source
//
// Matching:
//   - Always terminates, reports infeasible rounds immediately
//   - Not uniform over valid rounds
//   - Use for large groups or many rounds where rejection rarely succeeds
//
// Custom strategies can be implemented by satisfying the types.DrawStrategy interface.
package strategy
