package geo

import (
	"math"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"

	"github.com/golang/geo/s2"
)

const (
	// two sampled polylines count as parallel when their regression-line
	// bearings differ by less than this (modulo 180).
	PARALLEL_BEARING_TOLERANCE = 5.0
)

func ProjectPointToLineCoord(segmentStart, segmentEnd, point datastructure.Coordinate) datastructure.Coordinate {
	startS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segmentStart.Lat, segmentStart.Lon))
	endS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segmentEnd.Lat, segmentEnd.Lon))
	pointS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(point.Lat, point.Lon))
	projection := s2.Project(pointS2, startS2, endS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// FindClosestDistance. shortest distance in meter from a point to a polyline.
func FindClosestDistance(point datastructure.Coordinate, linePoints []datastructure.Coordinate) float64 {
	minDist := math.MaxFloat64
	if len(linePoints) == 1 {
		return CalculateHaversineDistance(point.Lat, point.Lon, linePoints[0].Lat, linePoints[0].Lon) * 1000
	}
	for i := 0; i < len(linePoints)-1; i++ {
		projection := ProjectPointToLineCoord(linePoints[i], linePoints[i+1], point)
		dist := CalculateHaversineDistance(point.Lat, point.Lon, projection.Lat, projection.Lon) * 1000
		if dist < minDist {
			minDist = dist
		}
	}
	return minDist
}

/*
AreParallel. fit a least-squares regression line through both coordinate
sequences and compare the bearings of the fitted lines. bearings are compared
modulo 180 since a regression line has no direction.
*/
func AreParallel(left, right []datastructure.Coordinate) bool {
	if len(left) < 2 || len(right) < 2 {
		return false
	}
	leftBearing := regressionLineBearing(left)
	rightBearing := regressionLineBearing(right)

	deviation := math.Abs(leftBearing - rightBearing)
	if deviation > 90 {
		deviation = 180 - deviation
	}
	return deviation < PARALLEL_BEARING_TOLERANCE
}

/*
regressionLineBearing. bearing in [0, 180) of the least-squares line through
the points, on a local equirectangular projection. the regression is done over
the axis with the larger spread so near-meridian lines stay stable.
*/
func regressionLineBearing(coords []datastructure.Coordinate) float64 {
	var meanLat, meanLon float64
	for _, c := range coords {
		meanLat += c.Lat
		meanLon += c.Lon
	}
	meanLat /= float64(len(coords))
	meanLon /= float64(len(coords))

	lonScale := math.Cos(toRadians(meanLat))

	var varX, varY, covXY float64
	for _, c := range coords {
		x := (c.Lon - meanLon) * lonScale
		y := c.Lat - meanLat
		varX += x * x
		varY += y * y
		covXY += x * y
	}

	if varX == 0 && varY == 0 {
		return 0
	}

	var dx, dy float64
	if varX >= varY {
		// east-west dominant, fit y = b*x
		dx, dy = 1, covXY/varX
	} else {
		// north-south dominant, fit x = b*y
		dx, dy = covXY/varY, 1
	}

	bearing := RestrictAngleToValidRange(toDegrees(math.Atan2(dx, dy)))
	return math.Mod(bearing, 180)
}
