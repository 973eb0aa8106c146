package routegen

import (
	"testing"

	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"

	"github.com/stretchr/testify/assert"
)

// crossroads: arrive at the center heading north, with exits north (straight),
// east (right), and west (left).
func crossroadsGraph() *datastructure.MultiGraph {
	g := datastructure.NewMultiGraph()
	g.AddNode(datastructure.NewNode(1, 0, 0))          // south, previous node
	g.AddNode(datastructure.NewNode(2, 0.001, 0))      // center
	g.AddNode(datastructure.NewNode(3, 0.002, 0))      // north
	g.AddNode(datastructure.NewNode(4, 0.001, 0.001))  // east
	g.AddNode(datastructure.NewNode(5, 0.001, -0.001)) // west

	for _, pair := range [][2]int64{{1, 2}, {2, 3}, {2, 4}, {2, 5}} {
		g.AddEdge(pair[0], pair[1], 111)
		g.AddEdge(pair[1], pair[0], 111)
	}
	return g
}

func candidatesOutOf(g *datastructure.MultiGraph, nodeID int64) []int32 {
	return append([]int32(nil), g.GetNodeOutEdges(nodeID)...)
}

func TestTurnCostSelectorPrefersRightTurn(t *testing.T) {
	g := crossroadsGraph()
	selector := NewTurnCostSelector(geo.DefaultTurnCostOptions())

	picked := selector.Pick(g, 2, 1, candidatesOutOf(g, 2))
	assert.Equal(t, int64(4), g.Edge(picked).ToNodeID, "right turn to the east exit must win")
}

func TestTurnCostSelectorAvoidsUTurnLast(t *testing.T) {
	g := crossroadsGraph()
	selector := NewTurnCostSelector(geo.DefaultTurnCostOptions())

	// only the u-turn back south and the left to the west remain
	remaining := []int32{}
	for _, edgeID := range g.GetNodeOutEdges(2) {
		to := g.Edge(edgeID).ToNodeID
		if to == 1 || to == 5 {
			remaining = append(remaining, edgeID)
		}
	}
	picked := selector.Pick(g, 2, 1, remaining)
	assert.Equal(t, int64(5), g.Edge(picked).ToNodeID, "left turn must beat the u-turn")
}

func TestTurnCostSelectorFirstEdgeUsesLength(t *testing.T) {
	g := datastructure.NewMultiGraph()
	g.AddNode(datastructure.NewNode(1, 0, 0))
	g.AddNode(datastructure.NewNode(2, 0.001, 0))
	g.AddNode(datastructure.NewNode(3, 0.002, 0))
	short, _ := g.AddEdge(1, 2, 50)
	g.AddEdge(1, 3, 200)

	selector := NewTurnCostSelector(geo.DefaultTurnCostOptions())
	picked := selector.Pick(g, 1, NO_START_NODE, candidatesOutOf(g, 1))
	assert.Equal(t, short, picked)
}

func TestSelectorTieBreaks(t *testing.T) {
	g := datastructure.NewMultiGraph()
	g.AddNode(datastructure.NewNode(1, 0, 0))
	g.AddNode(datastructure.NewNode(2, 0.001, 0))
	g.AddNode(datastructure.NewNode(3, 0.001, 0))

	// identical scores: same length, same geometry
	toThree, _ := g.AddEdge(1, 3, 100)
	toTwoFirst, _ := g.AddEdge(1, 2, 100)
	toTwoSecond, _ := g.AddEdge(1, 2, 100)
	_ = toThree

	selector := NewShortestEdgeSelector()

	picked := selector.Pick(g, 1, NO_START_NODE, candidatesOutOf(g, 1))
	// smaller to-node id wins, then the smaller key among parallels
	assert.Equal(t, toTwoFirst, picked)

	picked = selector.Pick(g, 1, NO_START_NODE, []int32{toTwoSecond, toThree, toTwoFirst})
	assert.Equal(t, toTwoFirst, picked)
}
