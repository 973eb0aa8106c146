package routegen

import (
	"sort"

	"trashroute/pkg/datastructure"
)

// ComponentInfo describes the weakly-connected-component selection for the
// report generator.
type ComponentInfo struct {
	TotalComponents         int
	KeptNodes               int
	DiscardedComponents     int
	DiscardedComponentSizes []int
	DiscardedNodes          int
}

// weakComponents returns the weakly connected components of the undirected
// projection, each as an ascending node-id slice. Components come out in
// order of their smallest node id.
func weakComponents(g *datastructure.MultiGraph) [][]int64 {
	visited := make(map[int64]bool, g.NumNodes())
	components := make([][]int64, 0)

	for _, start := range g.NodeIDs() {
		if visited[start] {
			continue
		}
		component := []int64{}
		queue := []int64{start}
		visited[start] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			component = append(component, curr)

			for _, edgeID := range g.GetNodeOutEdges(curr) {
				next := g.Edge(edgeID).ToNodeID
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
			for _, edgeID := range g.GetNodeInEdges(curr) {
				next := g.Edge(edgeID).FromNodeID
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	return components
}

// SelectLargestComponent keeps the component with the most nodes, breaking
// ties by smallest minimum node id, and returns the induced subgraph.
// Returns ErrEmptyNetwork when the kept component carries no edges.
func SelectLargestComponent(g *datastructure.MultiGraph) (*datastructure.MultiGraph, ComponentInfo, error) {
	components := weakComponents(g)
	if len(components) == 0 {
		return nil, ComponentInfo{}, ErrEmptyNetwork
	}

	// components are ordered by smallest node id, so the first maximal one
	// wins ties deterministically.
	keptIdx := 0
	for i := 1; i < len(components); i++ {
		if len(components[i]) > len(components[keptIdx]) {
			keptIdx = i
		}
	}

	kept := make(map[int64]bool, len(components[keptIdx]))
	for _, nodeID := range components[keptIdx] {
		kept[nodeID] = true
	}

	info := ComponentInfo{
		TotalComponents: len(components),
		KeptNodes:       len(components[keptIdx]),
	}
	for i, component := range components {
		if i == keptIdx {
			continue
		}
		info.DiscardedComponents++
		info.DiscardedComponentSizes = append(info.DiscardedComponentSizes, len(component))
		info.DiscardedNodes += len(component)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(info.DiscardedComponentSizes)))

	sub := datastructure.NewMultiGraph()
	for _, nodeID := range components[keptIdx] {
		node, _ := g.Node(nodeID)
		sub.AddNode(node)
	}
	for _, edge := range g.Edges() {
		if kept[edge.FromNodeID] && kept[edge.ToNodeID] {
			sub.AddEdge(edge.FromNodeID, edge.ToNodeID, edge.Dist)
		}
	}

	if sub.NumEdges() == 0 {
		return nil, info, ErrEmptyNetwork
	}
	return sub, info, nil
}
