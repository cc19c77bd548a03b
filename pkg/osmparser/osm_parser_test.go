package osmparser

import (
	"testing"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestAcceptOsmWay(t *testing.T) {
	way := func(tags ...osm.Tag) *osm.Way {
		return &osm.Way{Tags: osm.Tags(tags)}
	}

	assert.True(t, acceptOsmWay(way(osm.Tag{Key: "highway", Value: "residential"})))
	assert.False(t, acceptOsmWay(way(osm.Tag{Key: "building", Value: "yes"})))
	assert.False(t, acceptOsmWay(way(osm.Tag{Key: "highway", Value: "construction"})))
	assert.False(t, acceptOsmWay(way(osm.Tag{Key: "highway", Value: "traffic_signals"})))
}

func TestTravelModeFromHighway(t *testing.T) {
	assert.Equal(t, datastructure.TravelModeDriving, travelModeFromHighway("primary"))
	assert.Equal(t, datastructure.TravelModeDriving, travelModeFromHighway("residential"))
	assert.Equal(t, datastructure.TravelModeWalking, travelModeFromHighway("footway"))
	assert.Equal(t, datastructure.TravelModeWalking, travelModeFromHighway("steps"))
	assert.Equal(t, datastructure.TravelModeCycling, travelModeFromHighway("cycleway"))
}

func TestIsOneway(t *testing.T) {
	way := func(tags ...osm.Tag) *osm.Way {
		return &osm.Way{Tags: osm.Tags(tags)}
	}

	tests := []struct {
		name             string
		way              *osm.Way
		oneway, reversed bool
	}{
		{"no tag", way(osm.Tag{Key: "highway", Value: "residential"}), false, false},
		{"oneway yes", way(osm.Tag{Key: "oneway", Value: "yes"}), true, false},
		{"oneway 1", way(osm.Tag{Key: "oneway", Value: "1"}), true, false},
		{"oneway reverse", way(osm.Tag{Key: "oneway", Value: "-1"}), true, true},
		{
			"explicit no on a roundabout",
			way(osm.Tag{Key: "oneway", Value: "no"}, osm.Tag{Key: "junction", Value: "roundabout"}),
			false, false,
		},
		{
			"roundabout implicitly oneway",
			way(osm.Tag{Key: "junction", Value: "roundabout"}),
			true, false,
		},
		{
			"motorway implicitly oneway",
			way(osm.Tag{Key: "highway", Value: "motorway"}),
			true, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oneway, reversed := isOneway(tt.way)
			assert.Equal(t, tt.oneway, oneway)
			assert.Equal(t, tt.reversed, reversed)
		})
	}
}

func TestRoadClassID(t *testing.T) {
	p := NewOsmParser()

	primary := p.roadClassID("primary")
	residential := p.roadClassID("residential")

	assert.NotEqual(t, primary, residential)
	assert.Equal(t, primary, p.roadClassID("primary"))
}

/*
a oneway residential way through five nodes with a junction in the middle must
split into two segments, each producing a forward edge and a Reversed twin.
*/
func TestProcessWay(t *testing.T) {
	p := NewOsmParser()
	coords := []struct {
		id       int64
		lat, lon float64
	}{
		{100, -7.5500, 110.7800},
		{101, -7.5501, 110.7801},
		{102, -7.5502, 110.7802},
		{103, -7.5503, 110.7803},
		{104, -7.5504, 110.7804},
	}
	for i, c := range coords {
		nodeType := BETWEEN_NODE
		if i == 0 || i == len(coords)-1 {
			nodeType = END_NODE
		}
		p.wayNodeMap[c.id] = nodeType
		p.acceptedNodeMap[c.id] = nodeCoord{lat: c.lat, lon: c.lon}
	}
	p.wayNodeMap[102] = JUNCTION_NODE

	way := &osm.Way{
		Nodes: osm.WayNodes{
			{ID: 100}, {ID: 101}, {ID: 102}, {ID: 103}, {ID: 104},
		},
		Tags: osm.Tags{
			{Key: "highway", Value: "residential"},
			{Key: "name", Value: "Jl. Veteran"},
			{Key: "oneway", Value: "yes"},
			{Key: "lanes", Value: "2"},
		},
	}

	graph := datastructure.NewRoadNetwork()
	p.processWay(way, graph)

	assert.Equal(t, 3, graph.NumNodes())
	assert.Equal(t, 4, graph.NumEdges())

	forward := graph.GetEdgeData(0)
	backward := graph.GetEdgeData(1)

	assert.False(t, forward.Reversed)
	assert.True(t, backward.Reversed)
	assert.Equal(t, forward.FromNodeID, backward.ToNodeID)
	assert.Equal(t, forward.ToNodeID, backward.FromNodeID)
	assert.Equal(t, forward.StreetName, backward.StreetName)
	assert.Equal(t, "Jl. Veteran", graph.GetStreetNameFromID(forward.StreetName))
	assert.Equal(t, uint8(2), forward.RoadClassification.Lanes)
	assert.Greater(t, forward.Dist, 0.0)

	// geometry node 101 survives as in-between geometry, reversed on the twin
	assert.Len(t, forward.PointsInBetween, 1)
	assert.Len(t, backward.PointsInBetween, 1)
	assert.Equal(t, forward.PointsInBetween[0], backward.PointsInBetween[0])

	// second segment starts at the junction
	second := graph.GetEdgeData(2)
	assert.Equal(t, forward.ToNodeID, second.FromNodeID)
	assert.False(t, second.Reversed)
}

func TestProcessWayLinkClassification(t *testing.T) {
	p := NewOsmParser()
	for _, id := range []int64{200, 201} {
		p.wayNodeMap[id] = END_NODE
		p.acceptedNodeMap[id] = nodeCoord{lat: -7.55, lon: 110.78 + float64(id-200)*0.001}
	}

	link := &osm.Way{
		Nodes: osm.WayNodes{{ID: 200}, {ID: 201}},
		Tags: osm.Tags{
			{Key: "highway", Value: "motorway_link"},
		},
	}

	graph := datastructure.NewRoadNetwork()
	p.processWay(link, graph)

	edge := graph.GetEdgeData(0)
	// ramps share the base class of their road, the link flag is separate
	assert.Equal(t, p.roadClassID("motorway"), edge.RoadClassification.RoadClass)
	assert.Equal(t, uint8(1), edge.RoadClassification.RoadClassLink)
}
