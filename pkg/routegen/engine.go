package routegen

import (
	"log"

	"trashroute/pkg/datastructure"
)

// Result is the engine output: the closed waypoint sequence (first equals
// last) plus the statistics block for the report and API layers.
type Result struct {
	Waypoints []datastructure.Coordinate
	Circuit   []int32
	Stats     Statistics
}

// Generate runs the whole pipeline on parsed openstreetmap data: validate
// nodes, filter ways, build the paired directed multigraph, keep the
// largest weakly connected component, eulerize defensively, and extract a
// turn-preferring eulerian circuit. Single-threaded; one call owns its
// graph and shares nothing.
func Generate(nodes map[int64]datastructure.Node, ways []datastructure.Way, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	validNodes, droppedNodes := ValidateNodeTable(nodes)
	filtered := FilterWays(validNodes, ways, cfg)
	log.Printf("filtered ways: %d driveable of %d (%d rejected by tags, %d with unresolved nodes)",
		len(filtered.Ways), len(ways), filtered.RejectedByTags, filtered.InvalidNodeWays)

	g := BuildGraph(validNodes, filtered.Ways)
	log.Printf("built graph: %d nodes, %d directed edges", g.NumNodes(), g.NumEdges())

	kept, componentInfo, err := SelectLargestComponent(g)
	if err != nil {
		return nil, err
	}
	log.Printf("kept component: %d nodes, discarded %d components",
		componentInfo.KeptNodes, componentInfo.DiscardedComponents)

	originalEdges := kept.NumEdges()
	added, err := Eulerize(kept)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		log.Printf("eulerization added %d duplicate edges", added)
	}

	start, err := SelectStartNode(kept, cfg.StartNodeID)
	if err != nil {
		return nil, err
	}

	selector := NewTurnCostSelector(cfg.turnCostOptions())
	circuit, err := FindEulerianCircuit(kept, start, selector)
	if err != nil {
		return nil, err
	}

	waypoints := WaypointSequence(kept, circuit)
	counts := computeTurnCounts(kept, circuit, cfg.turnCostOptions())
	totalLength := circuitLengthMeters(kept, circuit)
	avgSpeedMs := cfg.AverageSpeedKmh * 1000 / 3600

	stats := Statistics{
		TotalLengthMeters:       totalLength,
		DriveTimeSeconds:        totalLength / avgSpeedMs,
		RightTurns:              counts.right,
		LeftTurns:               counts.left,
		Straights:               counts.straight,
		UTurns:                  counts.uTurn,
		UniqueSegments:          originalEdges / 2,
		EdgeCount:               kept.NumEdges(),
		DirectedTraversals:      len(circuit),
		KeptComponentNodes:      componentInfo.KeptNodes,
		DiscardedComponents:     componentInfo.DiscardedComponents,
		DiscardedComponentSizes: componentInfo.DiscardedComponentSizes,
		AddedEdges:              added,
		RejectedWays:            filtered.RejectedByTags,
		InvalidNodeWays:         filtered.InvalidNodeWays,
		InvalidCoordNodes:       droppedNodes,
		OneWayIgnored:           cfg.IgnoreOneway,
	}
	log.Printf("circuit: %d traversals, %.1f km, %d right / %d left / %d straight / %d u-turns",
		len(circuit), totalLength/1000, counts.right, counts.left, counts.straight, counts.uTurn)

	return &Result{Waypoints: waypoints, Circuit: circuit, Stats: stats}, nil
}
