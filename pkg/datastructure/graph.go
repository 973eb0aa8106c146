package datastructure

import (
	"sort"

	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64
	Lon float64
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// Node is one parsed openstreetmap node. Immutable after parsing.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

func NewNode(id int64, lat, lon float64) Node {
	return Node{ID: id, Lat: lat, Lon: lon}
}

// Way is one parsed openstreetmap way. Ways only live until filtering;
// accepted ways feed graph construction and are discarded afterwards.
type Way struct {
	ID      int64
	NodeIDs []int64
	Tags    map[string]string
}

func NewWay(id int64, nodeIDs []int64, tags map[string]string) Way {
	return Way{ID: id, NodeIDs: nodeIDs, Tags: tags}
}

// DirectedEdge is one directed traversal of a street segment. EdgeID is the
// dense index into the graph's edge array; Key disambiguates parallel edges
// between the same ordered node pair.
type DirectedEdge struct {
	EdgeID     int32
	FromNodeID int64
	ToNodeID   int64
	Dist       float64 // meters
	Key        int32
}

// MultiGraph is a directed multigraph over openstreetmap node ids. Edges
// live in a dense array with stable indices; adjacency is kept as lists of
// edge ids so parallel edges stay distinct. Node iteration is always over a
// sorted id slice, never raw map order.
type MultiGraph struct {
	nodes    map[int64]Node
	nodeIDs  []int64
	sorted   bool
	edges    []DirectedEdge
	outEdges map[int64][]int32
	inEdges  map[int64][]int32
	pairKeys map[[2]int64]int32
}

func NewMultiGraph() *MultiGraph {
	return &MultiGraph{
		nodes:    make(map[int64]Node),
		nodeIDs:  make([]int64, 0),
		sorted:   true,
		edges:    make([]DirectedEdge, 0),
		outEdges: make(map[int64][]int32),
		inEdges:  make(map[int64][]int32),
		pairKeys: make(map[[2]int64]int32),
	}
}

func (g *MultiGraph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
	g.nodeIDs = append(g.nodeIDs, n.ID)
	g.sorted = false
}

// AddEdge inserts a directed edge and returns its edge id. Both endpoints
// must already be nodes of the graph. Self-loops are rejected.
func (g *MultiGraph) AddEdge(fromID, toID int64, dist float64) (int32, bool) {
	if fromID == toID {
		return -1, false
	}
	if _, ok := g.nodes[fromID]; !ok {
		return -1, false
	}
	if _, ok := g.nodes[toID]; !ok {
		return -1, false
	}

	pair := [2]int64{fromID, toID}
	key := g.pairKeys[pair]
	g.pairKeys[pair] = key + 1

	edgeID := int32(len(g.edges))
	g.edges = append(g.edges, DirectedEdge{
		EdgeID:     edgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Dist:       dist,
		Key:        key,
	})
	g.outEdges[fromID] = append(g.outEdges[fromID], edgeID)
	g.inEdges[toID] = append(g.inEdges[toID], edgeID)
	return edgeID, true
}

func (g *MultiGraph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in ascending order.
func (g *MultiGraph) NodeIDs() []int64 {
	if !g.sorted {
		sort.Slice(g.nodeIDs, func(i, j int) bool { return g.nodeIDs[i] < g.nodeIDs[j] })
		g.sorted = true
	}
	return g.nodeIDs
}

func (g *MultiGraph) Edge(edgeID int32) DirectedEdge {
	return g.edges[edgeID]
}

func (g *MultiGraph) Edges() []DirectedEdge {
	return g.edges
}

func (g *MultiGraph) GetNodeOutEdges(nodeID int64) []int32 {
	return g.outEdges[nodeID]
}

func (g *MultiGraph) GetNodeInEdges(nodeID int64) []int32 {
	return g.inEdges[nodeID]
}

func (g *MultiGraph) OutDegree(nodeID int64) int {
	return len(g.outEdges[nodeID])
}

func (g *MultiGraph) InDegree(nodeID int64) int {
	return len(g.inEdges[nodeID])
}

func (g *MultiGraph) NumNodes() int {
	return len(g.nodes)
}

func (g *MultiGraph) NumEdges() int {
	return len(g.edges)
}

// CountEdgesBetween returns the number of parallel edges for one ordered
// node pair.
func (g *MultiGraph) CountEdgesBetween(fromID, toID int64) int {
	return int(g.pairKeys[[2]int64{fromID, toID}])
}

// RenderPath encodes a coordinate sequence as a google polyline string.
func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
