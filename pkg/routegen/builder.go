package routegen

import (
	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"
)

// BuildGraph constructs the directed multigraph from accepted ways. Every
// adjacent node pair contributes one edge per direction (bidirectional
// pairing), which is what makes the graph eulerian without augmentation.
// Overlapping segments across ways are not deduplicated; they surface as
// parallel edges with distinct keys.
func BuildGraph(nodes map[int64]datastructure.Node, ways []datastructure.Way) *datastructure.MultiGraph {
	g := datastructure.NewMultiGraph()

	for _, way := range ways {
		for i := 0; i < len(way.NodeIDs)-1; i++ {
			fromID := way.NodeIDs[i]
			toID := way.NodeIDs[i+1]
			if fromID == toID {
				// degenerate self-loop inside a way
				continue
			}
			from := nodes[fromID]
			to := nodes[toID]

			g.AddNode(from)
			g.AddNode(to)

			dist := geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
			g.AddEdge(fromID, toID, dist)
			g.AddEdge(toID, fromID, dist)
		}
	}
	return g
}
