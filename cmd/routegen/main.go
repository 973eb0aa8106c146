package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"trashroute/pkg/gpx"
	"trashroute/pkg/osmparser"
	"trashroute/pkg/report"
	"trashroute/pkg/routegen"
)

var (
	mapFile    = flag.String("f", "extract.osm.pbf", "openstreetmap extract (.osm, .xml or .pbf)")
	outputDir  = flag.String("o", ".", "output directory")
	gpxName    = flag.String("gpx", "collection_route.gpx", "output gpx file name")
	reportName = flag.String("report", "route_report.md", "output report file name")
	startNode  = flag.Int64("start", routegen.NO_START_NODE, "start node id (optional)")
)

func main() {
	flag.Parse()

	parser := osmparser.NewOsmParser()
	nodes, ways, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatal(err)
	}

	cfg := routegen.DefaultConfig()
	cfg.StartNodeID = *startNode

	result, err := routegen.Generate(nodes, ways, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal(err)
	}

	gpxPath := filepath.Join(*outputDir, *gpxName)
	f, err := os.Create(gpxPath)
	if err != nil {
		log.Fatal(err)
	}
	err = gpx.Write(f, "Collection route",
		"Curbside collection route, every segment twice, right-turn preferring", result.Waypoints)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("gpx written: %s (%d waypoints)", gpxPath, len(result.Waypoints))

	reportPath := filepath.Join(*outputDir, *reportName)
	content := report.Generate(filepath.Base(*mapFile), *gpxName, cfg, result.Stats)
	if err := report.Save(content, reportPath); err != nil {
		log.Fatal(err)
	}
	log.Printf("report written: %s", reportPath)
}
