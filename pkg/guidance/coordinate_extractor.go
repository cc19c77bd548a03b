package guidance

import (
	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
	"github.com/lintang-b-s/roadmerge/pkg/geo"
)

type CoordinateExtractor struct {
	graph RoadNetwork
}

func NewCoordinateExtractor(graph RoadNetwork) *CoordinateExtractor {
	return &CoordinateExtractor{graph: graph}
}

// ExtractCoordinates. the full polyline of one edge: from-node, intermediate
// geometry, target node.
func (ce *CoordinateExtractor) ExtractCoordinates(edgeID int32) []datastructure.Coordinate {
	edge := ce.graph.GetEdgeData(edgeID)
	coordinates := make([]datastructure.Coordinate, 0, len(edge.PointsInBetween)+2)
	coordinates = append(coordinates, ce.graph.GetNodeCoordinate(edge.FromNodeID))
	coordinates = append(coordinates, edge.PointsInBetween...)
	coordinates = append(coordinates, ce.graph.GetNodeCoordinate(edge.ToNodeID))
	return coordinates
}

/*
SampleCoordinates. resample a polyline to at most `samples` points spaced
length/samples meter apart, keeping the first point. linear interpolation
between the original points.
*/
func (ce *CoordinateExtractor) SampleCoordinates(coordinates []datastructure.Coordinate,
	length float64, samples int) []datastructure.Coordinate {
	if len(coordinates) < 2 || samples < 2 {
		return coordinates
	}

	interval := length / float64(samples)
	sampled := make([]datastructure.Coordinate, 0, samples)
	sampled = append(sampled, coordinates[0])

	nextSample := interval
	walked := 0.0
	for i := 0; i+1 < len(coordinates) && len(sampled) < samples; i++ {
		segment := geo.CalculateHaversineDistance(coordinates[i].Lat, coordinates[i].Lon,
			coordinates[i+1].Lat, coordinates[i+1].Lon) * 1000
		if segment == 0 {
			continue
		}
		for walked+segment >= nextSample && len(sampled) < samples {
			fraction := (nextSample - walked) / segment
			sampled = append(sampled, interpolateCoordinate(coordinates[i], coordinates[i+1], fraction))
			nextSample += interval
		}
		walked += segment
	}
	return sampled
}

func interpolateCoordinate(from, to datastructure.Coordinate, fraction float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(
		from.Lat+(to.Lat-from.Lat)*fraction,
		from.Lon+(to.Lon-from.Lon)*fraction,
	)
}

// PolylineLength. cumulative length of a polyline in meter.
func PolylineLength(coordinates []datastructure.Coordinate) float64 {
	length := 0.0
	for i := 0; i+1 < len(coordinates); i++ {
		length += geo.CalculateHaversineDistance(coordinates[i].Lat, coordinates[i].Lon,
			coordinates[i+1].Lat, coordinates[i+1].Lon) * 1000
	}
	return length
}

// TrimCoordinatesToLength. cut a polyline after limit meter of length,
// interpolating the final point on the cut segment.
func TrimCoordinatesToLength(coordinates []datastructure.Coordinate, limit float64) []datastructure.Coordinate {
	if len(coordinates) < 2 || limit <= 0 {
		if len(coordinates) > 1 {
			return coordinates[:1]
		}
		return coordinates
	}

	trimmed := make([]datastructure.Coordinate, 0, len(coordinates))
	trimmed = append(trimmed, coordinates[0])
	walked := 0.0
	for i := 0; i+1 < len(coordinates); i++ {
		segment := geo.CalculateHaversineDistance(coordinates[i].Lat, coordinates[i].Lon,
			coordinates[i+1].Lat, coordinates[i+1].Lon) * 1000
		if walked+segment >= limit {
			if segment > 0 {
				fraction := (limit - walked) / segment
				trimmed = append(trimmed, interpolateCoordinate(coordinates[i], coordinates[i+1], fraction))
			}
			return trimmed
		}
		walked += segment
		trimmed = append(trimmed, coordinates[i+1])
	}
	return trimmed
}
