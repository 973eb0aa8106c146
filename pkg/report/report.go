package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"trashroute/pkg/routegen"
	"trashroute/pkg/util"
)

func sortedSet(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Generate renders the human-readable route report: filter sets and
// soft-failure counts, component selection, route totals and turn counts.
// The one-way deviation disclosure appears when OneWayIgnored is set, and
// the augmentation section only when edges were added. EdgeCount is not
// printed separately.
func Generate(sourceFile, gpxFile string, cfg routegen.Config, stats routegen.Statistics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Collection route report: %s\n\n", gpxFile)
	fmt.Fprintf(&b, "Source OSM extract: %s\n", sourceFile)

	b.WriteString("\n## 1. What the GPX route guarantees\n\n")
	b.WriteString("- **Single continuous track:** one `<trk>` with one `<trkseg>`, start point equals end point.\n")
	b.WriteString("- **Right-side arm coverage:** every street segment is driven twice, once per direction, so each curb is on the vehicle's right on one of the two passes.\n")
	b.WriteString("- **Turn preference:** a greedy heuristic prefers right turns and penalizes left turns and U-turns during circuit extraction.\n")
	if stats.OneWayIgnored {
		b.WriteString("- **One-way streets:** restrictions are IGNORED. The route may violate one-way signage; both directions are required for curb coverage.\n")
	}

	b.WriteString("\n## 2. What was included / excluded\n\n")
	fmt.Fprintf(&b, "- Included highway values: %s\n", strings.Join(sortedSet(cfg.AllowedHighways), ", "))
	fmt.Fprintf(&b, "- Excluded highway values: %s\n", strings.Join(sortedSet(cfg.ExcludedHighways), ", "))
	fmt.Fprintf(&b, "- Excluded service values: %s\n", strings.Join(sortedSet(cfg.ExcludedServiceValues), ", "))
	fmt.Fprintf(&b, "- Excluded access values: %s\n", strings.Join(sortedSet(cfg.ExcludedAccessValues), ", "))
	fmt.Fprintf(&b, "- Ways rejected by tag rules: %d\n", stats.RejectedWays)
	fmt.Fprintf(&b, "- Ways dropped for unresolved node references: %d\n", stats.InvalidNodeWays)
	fmt.Fprintf(&b, "- Nodes dropped for out-of-range coordinates: %d\n", stats.InvalidCoordNodes)

	b.WriteString("\n## 3. Connected components\n\n")
	fmt.Fprintf(&b, "- Kept component: %d nodes\n", stats.KeptComponentNodes)
	fmt.Fprintf(&b, "- Discarded components: %d\n", stats.DiscardedComponents)
	if len(stats.DiscardedComponentSizes) > 0 {
		sizes := make([]string, 0, len(stats.DiscardedComponentSizes))
		for _, s := range stats.DiscardedComponentSizes {
			sizes = append(sizes, fmt.Sprintf("%d", s))
		}
		fmt.Fprintf(&b, "- Discarded component sizes (nodes): %s\n", strings.Join(sizes, ", "))
	}

	b.WriteString("\n## 4. Route statistics\n\n")
	fmt.Fprintf(&b, "- Unique segments routed: %d\n", stats.UniqueSegments)
	fmt.Fprintf(&b, "- Directed traversals: %d (2 x unique segments for the twice rule)\n", stats.DirectedTraversals)
	fmt.Fprintf(&b, "- Total length: %v km\n", util.RoundFloat(stats.TotalLengthMeters/1000, 2))
	fmt.Fprintf(&b, "- Estimated drive time: %v minutes at %v km/h average\n",
		util.RoundFloat(stats.DriveTimeSeconds/60, 1), cfg.AverageSpeedKmh)

	b.WriteString("\n### Turn analysis\n\n")
	fmt.Fprintf(&b, "- Right turns: %d\n", stats.RightTurns)
	fmt.Fprintf(&b, "- Left turns: %d\n", stats.LeftTurns)
	fmt.Fprintf(&b, "- Straight: %d\n", stats.Straights)
	fmt.Fprintf(&b, "- U-turns: %d\n", stats.UTurns)

	if stats.AddedEdges > 0 {
		b.WriteString("\n### Eulerian augmentation\n\n")
		fmt.Fprintf(&b, "- Duplicate edges added to restore degree balance: %d\n", stats.AddedEdges)
	}

	return b.String()
}

func Save(content, path string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
