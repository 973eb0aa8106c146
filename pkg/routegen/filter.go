package routegen

import (
	"trashroute/pkg/datastructure"
)

// FilterResult carries the accepted ways plus the soft-failure counters the
// report surfaces. Tag rejections are silent by design and not errors.
type FilterResult struct {
	Ways []datastructure.Way

	RejectedByTags  int
	InvalidNodeWays int
}

// ValidateNodeTable drops nodes with out-of-range coordinates and reports
// how many were dropped. Ways referencing a dropped node degrade in
// FilterWays like any other missing reference.
func ValidateNodeTable(nodes map[int64]datastructure.Node) (map[int64]datastructure.Node, int) {
	valid := make(map[int64]datastructure.Node, len(nodes))
	dropped := 0
	for id, n := range nodes {
		if n.Lat < -90 || n.Lat > 90 || n.Lon < -180 || n.Lon > 180 {
			dropped++
			continue
		}
		valid[id] = n
	}
	return valid, dropped
}

// IsDriveable decides whether a way is a driveable street from its tags.
// The oneway tag is deliberately not consulted here; see Config.IgnoreOneway.
func IsDriveable(way datastructure.Way, cfg Config) bool {
	highway, ok := way.Tags["highway"]
	if !ok {
		return false
	}
	if _, ok := cfg.AllowedHighways[highway]; !ok {
		return false
	}
	// the excluded set is disjoint from the allowed set today; the check
	// keeps a broadened allowed set from silently admitting foot traffic.
	if _, ok := cfg.ExcludedHighways[highway]; ok {
		return false
	}
	if service, ok := way.Tags["service"]; ok {
		if _, excluded := cfg.ExcludedServiceValues[service]; excluded {
			return false
		}
	}
	if access, ok := way.Tags["access"]; ok {
		if _, excluded := cfg.ExcludedAccessValues[access]; excluded {
			return false
		}
	}
	return len(way.NodeIDs) >= 2
}

// FilterWays reduces the parsed way list to driveable ways whose node
// references all resolve in the node table.
func FilterWays(nodes map[int64]datastructure.Node, ways []datastructure.Way, cfg Config) FilterResult {
	result := FilterResult{Ways: make([]datastructure.Way, 0, len(ways))}

	for _, way := range ways {
		if !IsDriveable(way, cfg) {
			result.RejectedByTags++
			continue
		}
		resolved := true
		for _, nodeID := range way.NodeIDs {
			if _, ok := nodes[nodeID]; !ok {
				resolved = false
				break
			}
		}
		if !resolved {
			result.InvalidNodeWays++
			continue
		}
		result.Ways = append(result.Ways, way)
	}
	return result
}
