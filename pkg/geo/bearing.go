package geo

import "math"

// BearingTo returns the forward bearing from point one to point two in
// degrees within [-180, 180]. 0 = north, +90 = east. Undefined for two
// identical points; callers must not pass zero-length segments.
func BearingTo(latOne, longOne, latTwo, longTwo float64) float64 {
	dLon := degreeToRadians(longTwo - longOne)
	latOneRad := degreeToRadians(latOne)
	latTwoRad := degreeToRadians(latTwo)

	y := math.Sin(dLon) * math.Cos(latTwoRad)
	x := math.Cos(latOneRad)*math.Sin(latTwoRad) -
		math.Sin(latOneRad)*math.Cos(latTwoRad)*math.Cos(dLon)

	return radiansToDegree(math.Atan2(y, x))
}

// TurnAngle returns the signed turn angle between an incoming and an
// outgoing bearing, in degrees within (-180, 180]. Positive = right turn,
// negative = left turn.
func TurnAngle(bearingIn, bearingOut float64) float64 {
	m := math.Mod(bearingOut-bearingIn+180.0, 360.0)
	if m <= 0 {
		m += 360.0
	}
	return m - 180.0
}
