package guidance_test

import (
	"math"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
)

const (
	baseLat = -7.550209300671982
	baseLon = 110.78942094938256

	earthRadiusM = 6371000.0
)

// testCoord. coordinate dNorth/dEast meter away from the base point.
func testCoord(dNorth, dEast float64) (float64, float64) {
	lat := baseLat + (dNorth/earthRadiusM)*(180.0/math.Pi)
	lon := baseLon + (dEast/(earthRadiusM*math.Cos(baseLat*math.Pi/180.0)))*(180.0/math.Pi)
	return lat, lon
}

func coordinateAt(dNorth, dEast float64) datastructure.Coordinate {
	lat, lon := testCoord(dNorth, dEast)
	return datastructure.NewCoordinate(lat, lon)
}

type roadSpec struct {
	name       int
	oneway     bool
	lanes      uint8
	roadClass  uint8
	link       uint8
	travelMode datastructure.TravelMode
	roundabout bool
	points     []datastructure.Coordinate // forward geometry between the nodes
}

func drivingRoad(name int, oneway bool) roadSpec {
	return roadSpec{
		name:       name,
		oneway:     oneway,
		lanes:      2,
		roadClass:  1,
		travelMode: datastructure.TravelModeDriving,
	}
}

type graphBuilder struct {
	graph *datastructure.RoadNetwork
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{graph: datastructure.NewRoadNetwork()}
}

func (gb *graphBuilder) addNode(dNorth, dEast float64) int32 {
	lat, lon := testCoord(dNorth, dEast)
	return gb.graph.AddNode(lat, lon)
}

/*
addRoad. one physical road segment between two nodes: a forward directed edge
and its backward twin. on oneway segments the twin is flagged Reversed.
returns (forward edge id, backward edge id).
*/
func (gb *graphBuilder) addRoad(from, to int32, spec roadSpec) (int32, int32) {
	reversedPoints := make([]datastructure.Coordinate, len(spec.points))
	for i := range spec.points {
		reversedPoints[i] = spec.points[len(spec.points)-1-i]
	}

	fromCoord := gb.graph.GetNodeCoordinate(from)
	toCoord := gb.graph.GetNodeCoordinate(to)
	dist := planarDistance(fromCoord, toCoord)

	classification := datastructure.NewRoadClassification(spec.roadClass, spec.link, spec.lanes)
	forward := gb.graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         from,
		ToNodeID:           to,
		StreetName:         spec.name,
		Reversed:           false,
		TravelMode:         spec.travelMode,
		Roundabout:         spec.roundabout,
		RoadClassification: classification,
		Dist:               dist,
		PointsInBetween:    spec.points,
	})
	backward := gb.graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         to,
		ToNodeID:           from,
		StreetName:         spec.name,
		Reversed:           spec.oneway,
		TravelMode:         spec.travelMode,
		Roundabout:         spec.roundabout,
		RoadClassification: classification,
		Dist:               dist,
		PointsInBetween:    reversedPoints,
	})
	return forward, backward
}

func planarDistance(a, b datastructure.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180.0 * earthRadiusM
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0 * earthRadiusM * math.Cos(baseLat*math.Pi/180.0)
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
