package routegen

import (
	"fmt"

	"trashroute/pkg/datastructure"
	"trashroute/pkg/util"
)

type walkEntry struct {
	nodeID int64
	inEdge int32 // edge used to arrive, -1 for the start node
}

// SelectStartNode resolves the circuit start: the caller-supplied node when
// it belongs to the graph with out-degree > 0, otherwise the smallest node
// id with out-degree > 0. Returns ErrDisconnected when no node can start a
// traversal.
func SelectStartNode(g *datastructure.MultiGraph, requested int64) (int64, error) {
	if requested != NO_START_NODE {
		if _, ok := g.Node(requested); ok && g.OutDegree(requested) > 0 {
			return requested, nil
		}
	}
	for _, nodeID := range g.NodeIDs() {
		if g.OutDegree(nodeID) > 0 {
			return nodeID, nil
		}
	}
	return NO_START_NODE, ErrDisconnected
}

// FindEulerianCircuit extracts a closed eulerian circuit with hierholzer's
// algorithm, consulting the selector every time an outgoing edge is needed
// instead of fixing edge order up front. The graph must be degree-balanced
// and weakly connected over its non-isolated nodes.
func FindEulerianCircuit(g *datastructure.MultiGraph, startNodeID int64, selector EdgeSelector) ([]int32, error) {
	unused := make(map[int64][]int32, g.NumNodes())
	for _, nodeID := range g.NodeIDs() {
		out := g.GetNodeOutEdges(nodeID)
		if len(out) > 0 {
			unused[nodeID] = append([]int32(nil), out...)
		}
	}

	stack := []walkEntry{{nodeID: startNodeID, inEdge: -1}}
	circuit := make([]int32, 0, g.NumEdges())

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		candidates := unused[top.nodeID]

		if len(candidates) > 0 {
			prevNodeID := NO_START_NODE
			if top.inEdge >= 0 {
				prevNodeID = g.Edge(top.inEdge).FromNodeID
			}
			picked := selector.Pick(g, top.nodeID, prevNodeID, candidates)

			removed := false
			for i, edgeID := range candidates {
				if edgeID == picked {
					unused[top.nodeID] = append(candidates[:i], candidates[i+1:]...)
					removed = true
					break
				}
			}
			if !removed {
				return nil, fmt.Errorf("selector returned edge %d not among candidates of node %d", picked, top.nodeID)
			}
			stack = append(stack, walkEntry{nodeID: g.Edge(picked).ToNodeID, inEdge: picked})
			continue
		}

		// node exhausted: emit its incoming edge. The circuit comes out
		// end-to-start and is reversed at the finish.
		if top.inEdge >= 0 {
			circuit = append(circuit, top.inEdge)
		}
		stack = stack[:len(stack)-1]
	}

	if len(circuit) != g.NumEdges() {
		return nil, fmt.Errorf("circuit covers %d of %d edges: %w", len(circuit), g.NumEdges(), ErrNotEulerizable)
	}
	return util.ReverseG(circuit), nil
}

// WaypointSequence expands a circuit into coordinates: the first edge's
// tail, then the head of every edge. Consecutive duplicates are preserved.
func WaypointSequence(g *datastructure.MultiGraph, circuit []int32) []datastructure.Coordinate {
	if len(circuit) == 0 {
		return nil
	}
	waypoints := make([]datastructure.Coordinate, 0, len(circuit)+1)

	first, _ := g.Node(g.Edge(circuit[0]).FromNodeID)
	waypoints = append(waypoints, datastructure.NewCoordinate(first.Lat, first.Lon))
	for _, edgeID := range circuit {
		head, _ := g.Node(g.Edge(edgeID).ToNodeID)
		waypoints = append(waypoints, datastructure.NewCoordinate(head.Lat, head.Lon))
	}
	return waypoints
}
