package routegen

import (
	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"
)

// EdgeSelector chooses the next outgoing edge during circuit extraction.
// candidates is never empty and holds unused edge ids out of the current
// node; prevNodeID is the tail of the edge used to arrive, or NO_START_NODE
// for the first edge out of the start node. Implementations must be
// deterministic.
type EdgeSelector interface {
	Pick(g *datastructure.MultiGraph, atNodeID, prevNodeID int64, candidates []int32) int32
}

// TurnCostSelector scores each candidate edge as turn-cost multiplier times
// edge length and picks the minimum, which greedily prefers right turns
// weighted by segment length. Ties break on smaller to-node id, then
// smaller edge key.
type TurnCostSelector struct {
	opts geo.TurnCostOptions
}

func NewTurnCostSelector(opts geo.TurnCostOptions) *TurnCostSelector {
	return &TurnCostSelector{opts: opts}
}

func (s *TurnCostSelector) Pick(g *datastructure.MultiGraph, atNodeID, prevNodeID int64, candidates []int32) int32 {
	at, _ := g.Node(atNodeID)

	haveBearing := false
	var bearingIn float64
	if prevNodeID != NO_START_NODE && prevNodeID != atNodeID {
		prev, ok := g.Node(prevNodeID)
		if ok && (prev.Lat != at.Lat || prev.Lon != at.Lon) {
			bearingIn = geo.BearingTo(prev.Lat, prev.Lon, at.Lat, at.Lon)
			haveBearing = true
		}
	}

	score := func(edge datastructure.DirectedEdge) float64 {
		if !haveBearing {
			return edge.Dist
		}
		to, _ := g.Node(edge.ToNodeID)
		if edge.ToNodeID == atNodeID || (to.Lat == at.Lat && to.Lon == at.Lon) {
			return edge.Dist
		}
		bearingOut := geo.BearingTo(at.Lat, at.Lon, to.Lat, to.Lon)
		angle := geo.TurnAngle(bearingIn, bearingOut)
		return geo.TurnCostMultiplier(angle, s.opts) * edge.Dist
	}

	return pickLowest(g, candidates, score)
}

// ShortestEdgeSelector picks the shortest unused outgoing edge; it exists
// as an alternate strategy and for tests that need turn-independent order.
type ShortestEdgeSelector struct{}

func NewShortestEdgeSelector() *ShortestEdgeSelector {
	return &ShortestEdgeSelector{}
}

func (s *ShortestEdgeSelector) Pick(g *datastructure.MultiGraph, atNodeID, prevNodeID int64, candidates []int32) int32 {
	return pickLowest(g, candidates, func(edge datastructure.DirectedEdge) float64 {
		return edge.Dist
	})
}

func pickLowest(g *datastructure.MultiGraph, candidates []int32, score func(datastructure.DirectedEdge) float64) int32 {
	best := candidates[0]
	bestEdge := g.Edge(best)
	bestScore := score(bestEdge)

	for _, edgeID := range candidates[1:] {
		edge := g.Edge(edgeID)
		edgeScore := score(edge)
		switch {
		case edgeScore < bestScore:
			best, bestEdge, bestScore = edgeID, edge, edgeScore
		case edgeScore == bestScore:
			if edge.ToNodeID < bestEdge.ToNodeID ||
				(edge.ToNodeID == bestEdge.ToNodeID && edge.Key < bestEdge.Key) {
				best, bestEdge, bestScore = edgeID, edge, edgeScore
			}
		}
	}
	return best
}
