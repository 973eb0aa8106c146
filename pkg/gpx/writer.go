package gpx

import (
	"encoding/xml"
	"fmt"
	"io"

	"trashroute/pkg/datastructure"

	gpx "github.com/twpayne/go-gpx"
)

const creator = "trashroute"

// Write serializes the waypoint sequence as a GPX 1.1 document with exactly
// one track holding exactly one segment, one point per waypoint in order.
// Consecutive duplicates are preserved; the closed-loop property of the
// input (first point equals last) is the caller's contract.
func Write(w io.Writer, name, description string, waypoints []datastructure.Coordinate) error {
	if len(waypoints) == 0 {
		return fmt.Errorf("empty waypoint sequence")
	}

	points := make([]*gpx.WptType, 0, len(waypoints))
	for _, wp := range waypoints {
		points = append(points, &gpx.WptType{Lat: wp.Lat, Lon: wp.Lon})
	}

	doc := &gpx.GPX{
		Version: "1.1",
		Creator: creator,
		Metadata: &gpx.MetadataType{
			Name: name,
			Desc: description,
		},
		Trk: []*gpx.TrkType{
			{
				Name: name,
				TrkSeg: []*gpx.TrkSegType{
					{TrkPt: points},
				},
			},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return doc.WriteIndent(w, "", "  ")
}
