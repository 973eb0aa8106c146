package routegen

import (
	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"
)

// Statistics is the report-facing summary of one generated route.
type Statistics struct {
	TotalLengthMeters float64 `json:"total_length_meters"`
	DriveTimeSeconds  float64 `json:"drive_time_seconds"`

	RightTurns int `json:"right_turns"`
	LeftTurns  int `json:"left_turns"`
	Straights  int `json:"straights"`
	UTurns     int `json:"u_turns"`

	UniqueSegments     int `json:"unique_segments"`
	EdgeCount          int `json:"edge_count"`
	DirectedTraversals int `json:"directed_traversals"`

	KeptComponentNodes      int   `json:"kept_component_nodes"`
	DiscardedComponents     int   `json:"discarded_components"`
	DiscardedComponentSizes []int `json:"discarded_component_sizes"`

	AddedEdges        int  `json:"added_edges"`
	RejectedWays      int  `json:"rejected_ways"`
	InvalidNodeWays   int  `json:"invalid_node_ways"`
	InvalidCoordNodes int  `json:"invalid_coord_nodes"`
	OneWayIgnored     bool `json:"one_way_ignored"`
}

type turnCounts struct {
	right    int
	left     int
	straight int
	uTurn    int
}

// computeTurnCounts classifies each consecutive edge transition of the
// final circuit. Transitions over zero-length geometry are skipped since a
// bearing is undefined there.
func computeTurnCounts(g *datastructure.MultiGraph, circuit []int32, opts geo.TurnCostOptions) turnCounts {
	counts := turnCounts{}
	for i := 0; i < len(circuit)-1; i++ {
		in := g.Edge(circuit[i])
		out := g.Edge(circuit[i+1])

		from, _ := g.Node(in.FromNodeID)
		mid, _ := g.Node(in.ToNodeID)
		to, _ := g.Node(out.ToNodeID)

		if (from.Lat == mid.Lat && from.Lon == mid.Lon) ||
			(mid.Lat == to.Lat && mid.Lon == to.Lon) {
			continue
		}

		angle := geo.TurnAngle(
			geo.BearingTo(from.Lat, from.Lon, mid.Lat, mid.Lon),
			geo.BearingTo(mid.Lat, mid.Lon, to.Lat, to.Lon),
		)
		switch geo.ClassifyTurn(angle, opts) {
		case geo.TURN_RIGHT:
			counts.right++
		case geo.TURN_LEFT:
			counts.left++
		case geo.TURN_U_TURN:
			counts.uTurn++
		default:
			counts.straight++
		}
	}
	return counts
}

func circuitLengthMeters(g *datastructure.MultiGraph, circuit []int32) float64 {
	total := 0.0
	for _, edgeID := range circuit {
		total += g.Edge(edgeID).Dist
	}
	return total
}
