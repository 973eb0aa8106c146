package routegen

import (
	"container/heap"
	"math"
	"sort"

	"trashroute/pkg/datastructure"
)

// nodeDeficit is out-degree minus in-degree for one imbalanced node.
type nodeDeficit struct {
	nodeID  int64
	deficit int
}

func degreeDeficits(g *datastructure.MultiGraph) []nodeDeficit {
	deficits := make([]nodeDeficit, 0)
	for _, nodeID := range g.NodeIDs() {
		d := g.OutDegree(nodeID) - g.InDegree(nodeID)
		if d != 0 {
			deficits = append(deficits, nodeDeficit{nodeID: nodeID, deficit: d})
		}
	}
	return deficits
}

type pqItem struct {
	nodeID int64
	cost   float64
}

type nodePQ []pqItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].nodeID < pq[j].nodeID
}
func (pq nodePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// shortestPath runs dijkstra over edge lengths from one node to another and
// returns the traversed edge ids. Ties between equal-cost frontier nodes
// break on node id so augmentation stays deterministic.
func shortestPath(g *datastructure.MultiGraph, fromNodeID, toNodeID int64) ([]int32, float64, bool) {
	cost := make(map[int64]float64)
	prevEdge := make(map[int64]int32)
	visited := make(map[int64]bool)

	pq := &nodePQ{}
	heap.Init(pq)
	heap.Push(pq, pqItem{nodeID: fromNodeID, cost: 0})
	cost[fromNodeID] = 0

	for pq.Len() > 0 {
		curr := heap.Pop(pq).(pqItem)
		if visited[curr.nodeID] {
			continue
		}
		visited[curr.nodeID] = true

		if curr.nodeID == toNodeID {
			break
		}

		for _, edgeID := range g.GetNodeOutEdges(curr.nodeID) {
			edge := g.Edge(edgeID)
			if visited[edge.ToNodeID] {
				continue
			}
			newCost := cost[curr.nodeID] + edge.Dist
			old, seen := cost[edge.ToNodeID]
			if !seen || newCost < old {
				cost[edge.ToNodeID] = newCost
				prevEdge[edge.ToNodeID] = edgeID
				heap.Push(pq, pqItem{nodeID: edge.ToNodeID, cost: newCost})
			}
		}
	}

	if !visited[toNodeID] {
		return nil, math.MaxFloat64, false
	}

	path := []int32{}
	at := toNodeID
	for at != fromNodeID {
		edgeID := prevEdge[at]
		path = append(path, edgeID)
		at = g.Edge(edgeID).FromNodeID
	}
	// path was collected target-to-source
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, cost[toNodeID], true
}

// Eulerize restores in = out at every node by duplicating existing edges
// along shortest directed paths. With bidirectional pairing intact this is
// a no-op; the pass exists for inputs where pairing was relaxed. Paths run
// from nodes with surplus in-degree to nodes with surplus out-degree,
// greedily matching the nearest pair first, one path per unit of deficit.
func Eulerize(g *datastructure.MultiGraph) (int, error) {
	deficits := degreeDeficits(g)
	if len(deficits) == 0 {
		return 0, nil
	}

	// needOut: out < in, a duplicate path must start here.
	// needIn:  out > in, a duplicate path must end here.
	needOut := make([]nodeDeficit, 0)
	needIn := make([]nodeDeficit, 0)
	for _, d := range deficits {
		if d.deficit < 0 {
			needOut = append(needOut, nodeDeficit{nodeID: d.nodeID, deficit: -d.deficit})
		} else {
			needIn = append(needIn, d)
		}
	}
	sort.Slice(needOut, func(i, j int) bool { return needOut[i].nodeID < needOut[j].nodeID })
	sort.Slice(needIn, func(i, j int) bool { return needIn[i].nodeID < needIn[j].nodeID })

	added := 0
	for len(needOut) > 0 && len(needIn) > 0 {
		bestFrom, bestTo := -1, -1
		bestCost := math.MaxFloat64
		var bestPath []int32

		for i := range needOut {
			for j := range needIn {
				path, pathCost, ok := shortestPath(g, needOut[i].nodeID, needIn[j].nodeID)
				if !ok {
					continue
				}
				if pathCost < bestCost {
					bestCost = pathCost
					bestFrom, bestTo = i, j
					bestPath = path
				}
			}
		}
		if bestFrom < 0 {
			return added, ErrNotEulerizable
		}

		// duplicate the path's edge records; no new geometry is invented.
		for _, edgeID := range bestPath {
			edge := g.Edge(edgeID)
			g.AddEdge(edge.FromNodeID, edge.ToNodeID, edge.Dist)
			added++
		}

		needOut[bestFrom].deficit--
		needIn[bestTo].deficit--
		if needOut[bestFrom].deficit == 0 {
			needOut = append(needOut[:bestFrom], needOut[bestFrom+1:]...)
		}
		if needIn[bestTo].deficit == 0 {
			needIn = append(needIn[:bestTo], needIn[bestTo+1:]...)
		}
	}

	if len(degreeDeficits(g)) != 0 {
		return added, ErrNotEulerizable
	}
	return added, nil
}
