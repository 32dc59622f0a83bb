package graph

import (
	"sort"

	"github.com/sonicgraph/engine/block"
)

// schedule computes a deterministic topological order over blockIDs given
// the audio and modulation edges between them, using Kahn's algorithm with
// ascending BlockID as the tie-break among simultaneously-ready nodes, per
// spec.md §4.6. Modulation edges participate in the same dependency graph
// as audio edges — a block must be scheduled after every block whose
// modulation output or audio signal it consumes — which is what makes
// spec.md's "no cyclic graphs" Non-goal enforceable by this single pass
// rather than needing a separate modulation-ordering step.
func schedule(blockIDs []block.BlockID, audioEdges []audioEdge, modEdges []modEdge) ([]block.BlockID, error) {
	inDegree := make(map[block.BlockID]int, len(blockIDs))
	adj := make(map[block.BlockID][]block.BlockID)
	for _, id := range blockIDs {
		inDegree[id] = 0
	}
	addEdge := func(from, to block.BlockID) {
		adj[from] = append(adj[from], to)
		inDegree[to]++
	}
	for _, e := range audioEdges {
		addEdge(e.srcBlock, e.dstBlock)
	}
	for _, e := range modEdges {
		addEdge(e.srcBlock, e.dstBlock)
	}

	ready := make([]block.BlockID, 0, len(blockIDs))
	for _, id := range blockIDs {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]block.BlockID, 0, len(blockIDs))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		var newlyReady []block.BlockID
		for _, dst := range adj[next] {
			inDegree[dst]--
			if inDegree[dst] == 0 {
				newlyReady = append(newlyReady, dst)
			}
		}
		ready = append(ready, newlyReady...)
	}

	if len(order) != len(blockIDs) {
		scheduled := make(map[block.BlockID]bool, len(order))
		for _, id := range order {
			scheduled[id] = true
		}
		var remaining []block.BlockID
		for _, id := range blockIDs {
			if !scheduled[id] {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleError{Blocks: remaining}
	}

	return order, nil
}
