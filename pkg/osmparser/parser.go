package osmparser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"trashroute/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// OsmParser streams an openstreetmap extract (xml or pbf) into the typed
// node table and way list the route engine consumes. Only ways carrying a
// highway tag are kept here; the engine's tag filter makes the final call.
type OsmParser struct {
	wayNodeIDs map[int64]struct{}
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		wayNodeIDs: make(map[int64]struct{}),
	}
}

func newScanner(ctx context.Context, f *os.File, mapFile string) osm.Scanner {
	if strings.EqualFold(filepath.Ext(mapFile), ".pbf") {
		return osmpbf.New(ctx, f, 0)
	}
	return osmxml.New(ctx, f)
}

// Parse scans the file twice: first the ways, to learn which node ids the
// road network references, then the nodes, to resolve their coordinates.
// must not be parallel
func (p *OsmParser) Parse(mapFile string) (map[int64]datastructure.Node, []datastructure.Way, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open osm file: %w", err)
	}
	defer f.Close()

	// fresh per call so nothing leaks between jobs
	p.wayNodeIDs = make(map[int64]struct{})

	ways := make([]datastructure.Way, 0)

	scanner := newScanner(context.Background(), f, mapFile)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		if way.Tags.Find("highway") == "" {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		nodeIDs := make([]int64, 0, len(way.Nodes))
		for _, wayNode := range way.Nodes {
			nodeIDs = append(nodeIDs, int64(wayNode.ID))
			p.wayNodeIDs[int64(wayNode.ID)] = struct{}{}
		}

		tags := make(map[string]string, len(way.Tags))
		for _, tag := range way.Tags {
			tags[tag.Key] = tag.Value
		}
		ways = append(ways, datastructure.NewWay(int64(way.ID), nodeIDs, tags))
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	nodes := make(map[int64]datastructure.Node, len(p.wayNodeIDs))
	scanner = newScanner(context.Background(), f, mapFile)
	defer scanner.Close()
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		if (countNodes+1)%50000 == 0 {
			log.Printf("reading openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		node := o.(*osm.Node)
		if _, ok := p.wayNodeIDs[int64(node.ID)]; !ok {
			continue
		}
		nodes[int64(node.ID)] = datastructure.NewNode(int64(node.ID), node.Lat, node.Lon)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan osm nodes: %w", err)
	}

	log.Printf("parsed %d highway ways, %d referenced nodes", len(ways), len(nodes))
	return nodes, ways, nil
}
