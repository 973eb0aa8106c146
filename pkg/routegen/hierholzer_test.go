package routegen

import (
	"testing"

	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func defaultSelector() EdgeSelector {
	return NewTurnCostSelector(geo.DefaultTurnCostOptions())
}

func assertClosedCircuit(t *testing.T, g *datastructure.MultiGraph, circuit []int32) {
	t.Helper()

	assert.Equal(t, g.NumEdges(), len(circuit))

	seen := make(map[int32]bool)
	for i, edgeID := range circuit {
		assert.False(t, seen[edgeID], "edge %d appears twice", edgeID)
		seen[edgeID] = true
		if i > 0 {
			assert.Equal(t, g.Edge(circuit[i-1]).ToNodeID, g.Edge(edgeID).FromNodeID,
				"circuit breaks between position %d and %d", i-1, i)
		}
	}
	assert.Equal(t, g.Edge(circuit[0]).FromNodeID, g.Edge(circuit[len(circuit)-1]).ToNodeID)
}

func TestFindEulerianCircuitTriangle(t *testing.T) {
	g := datastructure.NewMultiGraph()
	ringGraph(g, []int64{1, 2, 3}, 0)

	circuit, err := FindEulerianCircuit(g, 1, defaultSelector())
	assert.NoError(t, err)
	assertClosedCircuit(t, g, circuit)
	assert.Len(t, circuit, 6)

	waypoints := WaypointSequence(g, circuit)
	assert.Len(t, waypoints, 7)
	assert.Equal(t, waypoints[0], waypoints[len(waypoints)-1])
}

func TestFindEulerianCircuitSingleSegment(t *testing.T) {
	g := datastructure.NewMultiGraph()
	g.AddNode(datastructure.NewNode(1, 0, 0))
	g.AddNode(datastructure.NewNode(2, 0, 0.001))
	g.AddEdge(1, 2, 111)
	g.AddEdge(2, 1, 111)

	circuit, err := FindEulerianCircuit(g, 1, defaultSelector())
	assert.NoError(t, err)
	assertClosedCircuit(t, g, circuit)
	assert.Len(t, circuit, 2)

	waypoints := WaypointSequence(g, circuit)
	assert.Len(t, waypoints, 3)
	assert.Equal(t, waypoints[0], waypoints[2])
}

func TestFindEulerianCircuitParallelEdges(t *testing.T) {
	g := datastructure.NewMultiGraph()
	g.AddNode(datastructure.NewNode(1, 0, 0))
	g.AddNode(datastructure.NewNode(2, 0, 0.001))
	// two ways over the same segment: four directed edges
	g.AddEdge(1, 2, 111)
	g.AddEdge(2, 1, 111)
	g.AddEdge(1, 2, 111)
	g.AddEdge(2, 1, 111)

	circuit, err := FindEulerianCircuit(g, 1, defaultSelector())
	assert.NoError(t, err)
	assertClosedCircuit(t, g, circuit)
	assert.Len(t, circuit, 4)
}

func TestFindEulerianCircuitDeterministic(t *testing.T) {
	build := func() *datastructure.MultiGraph {
		g := datastructure.NewMultiGraph()
		ringGraph(g, []int64{1, 2, 3, 4, 5}, 0)
		ringGraph(g, []int64{3, 6, 7}, 2) // shares node 3
		return g
	}

	first, err := FindEulerianCircuit(build(), 1, defaultSelector())
	assert.NoError(t, err)
	second, err := FindEulerianCircuit(build(), 1, defaultSelector())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectStartNode(t *testing.T) {
	g := datastructure.NewMultiGraph()
	ringGraph(g, []int64{5, 6, 7}, 0)

	t.Run("requested node wins when usable", func(t *testing.T) {
		start, err := SelectStartNode(g, 6)
		assert.NoError(t, err)
		assert.Equal(t, int64(6), start)
	})

	t.Run("unknown requested node falls back to smallest id", func(t *testing.T) {
		start, err := SelectStartNode(g, 99)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), start)
	})

	t.Run("no request picks smallest id", func(t *testing.T) {
		start, err := SelectStartNode(g, NO_START_NODE)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), start)
	})

	t.Run("graph without outgoing edges is disconnected", func(t *testing.T) {
		empty := datastructure.NewMultiGraph()
		empty.AddNode(datastructure.NewNode(1, 0, 0))
		_, err := SelectStartNode(empty, NO_START_NODE)
		assert.ErrorIs(t, err, ErrDisconnected)
	})
}
