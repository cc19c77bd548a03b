package geo

import "math"

const (
	DEGREE_TO_RADIANS = 0.017453292519943295
	RADIANS_TO_DEGREE = 57.29577951308232
)

func toRadians(degrees float64) float64 {
	return degrees * DEGREE_TO_RADIANS
}

func toDegrees(radians float64) float64 {
	return radians * RADIANS_TO_DEGREE
}

// BearingTo. initial great-circle bearing from (lat1,lon1) to (lat2,lon2), in [0, 360).
func BearingTo(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaLambda := toRadians(lon2 - lon1)

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)
	theta := math.Atan2(y, x)
	return RestrictAngleToValidRange(toDegrees(theta))
}

// AngularDeviation. absolute difference between two angles, wrapped into [0, 180].
func AngularDeviation(angle, from float64) float64 {
	deviation := math.Abs(math.Mod(angle-from, 360))
	if deviation > 180 {
		deviation = 360 - deviation
	}
	return deviation
}

// RestrictAngleToValidRange. wrap an angle into [0, 360).
func RestrictAngleToValidRange(angle float64) float64 {
	wrapped := math.Mod(angle, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}
