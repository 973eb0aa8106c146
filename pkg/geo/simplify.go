package geo

import (
	"container/list"

	"trashroute/pkg/datastructure"

	"github.com/golang/geo/s2"
)

const (
	DOUGLAS_PEUCKER_THRESHOLDS = 7.0 // 7 meter
)

// PointLinePerpendicularDistance returns the distance in meters from point p
// to its projection onto the great-circle segment (lineStart, lineEnd).
func PointLinePerpendicularDistance(lineStart, lineEnd, p datastructure.Coordinate) float64 {
	a := s2.PointFromLatLng(s2.LatLngFromDegrees(lineStart.Lat, lineStart.Lon))
	b := s2.PointFromLatLng(s2.LatLngFromDegrees(lineEnd.Lat, lineEnd.Lon))
	q := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))

	projection := s2.Project(q, a, b)
	projLatLng := s2.LatLngFromPoint(projection)
	return s2.LatLngFromDegrees(p.Lat, p.Lon).Distance(projLatLng).Radians() * earthRadiusM
}

// https://cartography-playground.gitlab.io/playgrounds/douglas-peucker-algorithm/
//
// RamerDouglasPeucker simplifies a coordinate sequence for preview rendering
// only; the GPX output never goes through here.
func RamerDouglasPeucker(coords []datastructure.Coordinate) []datastructure.Coordinate {
	size := len(coords)
	if size < 2 {
		return coords
	}

	kepts := make([]bool, size)
	kepts[0] = true
	kepts[size-1] = true

	stack := list.New()
	stack.PushBack([2]int{0, size - 1})

	threshold := DOUGLAS_PEUCKER_THRESHOLDS
	for stack.Len() > 0 {
		pair := stack.Remove(stack.Back()).([2]int)
		left, right := pair[0], pair[1]
		var maxDist float64
		farthestIndex := left

		// swep over range to find the farthest point from the segment (left,right)
		for i := left + 1; i < right; i++ {
			dist := PointLinePerpendicularDistance(coords[left], coords[right], coords[i])
			if dist > maxDist && dist > threshold {
				maxDist = dist
				farthestIndex = i
			}
		}

		if maxDist > threshold {
			kepts[farthestIndex] = true
			if left < farthestIndex {
				stack.PushBack([2]int{left, farthestIndex})
			}
			if farthestIndex < right {
				stack.PushBack([2]int{farthestIndex, right})
			}
		}
	}

	simplifiedGeometry := make([]datastructure.Coordinate, 0)
	for i, necessary := range kepts {
		if necessary {
			simplifiedGeometry = append(simplifiedGeometry, coords[i])
		}
	}
	return simplifiedGeometry
}
