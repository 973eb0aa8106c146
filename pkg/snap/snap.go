package snap

import (
	"sort"

	"trashroute/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	nearestCandidates = 8
	pointTolerance    = 1e-6
)

type nodeLeaf struct {
	id  int64
	loc rtreego.Point // {lon, lat}
}

func (n *nodeLeaf) Bounds() rtreego.Rect {
	return n.loc.ToRect(pointTolerance)
}

// NodeIndex answers "which graph node is nearest to this coordinate" for
// start-point resolution. The rtree narrows the candidate set; the final
// ranking uses great-circle distance so planar distortion near the box
// edges cannot flip the answer.
type NodeIndex struct {
	tree *rtreego.Rtree
}

// BuildNodeIndex indexes every node of the table. Insertion order is the
// sorted id order so the tree shape is reproducible.
func BuildNodeIndex(nodes map[int64]datastructure.Node) *NodeIndex {
	ids := make([]int64, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tree := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	for _, id := range ids {
		node := nodes[id]
		tree.Insert(&nodeLeaf{id: id, loc: rtreego.Point{node.Lon, node.Lat}})
	}
	return &NodeIndex{tree: tree}
}

// NearestNode returns the node id closest to (lat, lon). Ties on distance
// break on smaller node id.
func (idx *NodeIndex) NearestNode(lat, lon float64) (int64, bool) {
	results := idx.tree.NearestNeighbors(nearestCandidates, rtreego.Point{lon, lat})
	if len(results) == 0 {
		return 0, false
	}

	query := s2.LatLngFromDegrees(lat, lon)
	bestID := int64(0)
	bestDist := -1.0
	for _, r := range results {
		if r == nil {
			continue
		}
		leaf := r.(*nodeLeaf)
		dist := query.Distance(s2.LatLngFromDegrees(leaf.loc[1], leaf.loc[0])).Radians()
		if bestDist < 0 || dist < bestDist || (dist == bestDist && leaf.id < bestID) {
			bestDist = dist
			bestID = leaf.id
		}
	}
	if bestDist < 0 {
		return 0, false
	}
	return bestID, true
}
