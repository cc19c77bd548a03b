package datastructure_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-polyline"
)

func buildTestNetwork() *datastructure.RoadNetwork {
	graph := datastructure.NewRoadNetwork()
	nodeA := graph.AddNode(-7.550209300671982, 110.78942094938256)
	nodeB := graph.AddNode(-7.546196863318374, 110.7775170972345)
	nodeC := graph.AddNode(-7.557155997491524, 110.77170252731288)

	name := graph.GetTagIDMap().GetID("Jl. Slamet Riyadi")
	graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         nodeA,
		ToNodeID:           nodeB,
		StreetName:         name,
		TravelMode:         datastructure.TravelModeDriving,
		RoadClassification: datastructure.NewRoadClassification(1, 0, 2),
		Dist:               1380,
		PointsInBetween: []datastructure.Coordinate{
			datastructure.NewCoordinate(-7.548, 110.783),
		},
	})
	graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         nodeB,
		ToNodeID:           nodeA,
		StreetName:         name,
		Reversed:           true,
		TravelMode:         datastructure.TravelModeDriving,
		RoadClassification: datastructure.NewRoadClassification(1, 0, 2),
		Dist:               1380,
		PointsInBetween: []datastructure.Coordinate{
			datastructure.NewCoordinate(-7.548, 110.783),
		},
	})
	graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         nodeA,
		ToNodeID:           nodeC,
		StreetName:         graph.GetTagIDMap().GetID("Jl. Bhayangkara"),
		TravelMode:         datastructure.TravelModeDriving,
		RoadClassification: datastructure.NewRoadClassification(2, 0, 1),
		Dist:               2100,
		PointsInBetween: []datastructure.Coordinate{
			datastructure.NewCoordinate(-7.553, 110.780),
		},
	})
	return graph
}

func TestRoadNetwork(t *testing.T) {
	graph := buildTestNetwork()

	assert.Equal(t, 3, graph.NumNodes())
	assert.Equal(t, 3, graph.NumEdges())

	t.Run("out edges and degree", func(t *testing.T) {
		assert.Equal(t, 2, graph.GetOutDegree(0))
		assert.Equal(t, 1, graph.GetOutDegree(1))
		assert.Equal(t, 0, graph.GetOutDegree(2))
		assert.Equal(t, []int32{0, 2}, graph.GetNodeOutEdges(0))
	})

	t.Run("edge ids are assigned on insert", func(t *testing.T) {
		edge := graph.GetEdgeData(1)
		assert.Equal(t, int32(1), edge.EdgeID)
		assert.True(t, edge.Reversed)
		assert.Equal(t, int32(0), graph.GetTarget(1))
	})

	t.Run("street names round-trip through the tag map", func(t *testing.T) {
		edge := graph.GetEdgeData(0)
		assert.Equal(t, "Jl. Slamet Riyadi", graph.GetStreetNameFromID(edge.StreetName))
		assert.Equal(t, edge.StreetName, graph.GetTagIDMap().GetID("Jl. Slamet Riyadi"))
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	graph := buildTestNetwork()

	t.Run("through a buffer", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, graph.WriteSnapshot(&buf))

		loaded, err := datastructure.ReadSnapshot(&buf)
		assert.NoError(t, err)

		assert.Equal(t, graph.NumNodes(), loaded.NumNodes())
		assert.Equal(t, graph.NumEdges(), loaded.NumEdges())
		for edgeID := int32(0); edgeID < int32(graph.NumEdges()); edgeID++ {
			assert.Equal(t, graph.GetEdgeData(edgeID), loaded.GetEdgeData(edgeID))
		}
		for nodeID := int32(0); nodeID < int32(graph.NumNodes()); nodeID++ {
			assert.Equal(t, graph.GetNodeCoordinate(nodeID), loaded.GetNodeCoordinate(nodeID))
			assert.Equal(t, graph.GetOutDegree(nodeID), loaded.GetOutDegree(nodeID))
		}
		assert.Equal(t, graph.GetNodeOutEdges(0), loaded.GetNodeOutEdges(0))
		assert.Equal(t, "Jl. Slamet Riyadi", loaded.GetStreetNameFromID(
			loaded.GetEdgeData(0).StreetName))
	})

	t.Run("through a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roadnetwork.snap")
		assert.NoError(t, graph.SaveToFile(path))

		loaded, err := datastructure.LoadFromFile(path)
		assert.NoError(t, err)
		assert.Equal(t, graph.NumNodes(), loaded.NumNodes())
		assert.Equal(t, graph.NumEdges(), loaded.NumEdges())
	})
}

func TestCompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("road network snapshot "), 512)

	var compressed bytes.Buffer
	assert.NoError(t, datastructure.CompressData(payload, &compressed))
	assert.Less(t, compressed.Len(), len(payload))

	var decompressed bytes.Buffer
	assert.NoError(t, datastructure.DecompressData(compressed.Bytes(), &decompressed))
	assert.Equal(t, payload, decompressed.Bytes())
}

func TestRenderPath(t *testing.T) {
	path := []datastructure.Coordinate{
		datastructure.NewCoordinate(-7.550209, 110.789420),
		datastructure.NewCoordinate(-7.546196, 110.777517),
	}

	encoded := datastructure.RenderPath(path)
	decoded, _, err := polyline.DecodeCoords([]byte(encoded))
	assert.NoError(t, err)
	assert.Len(t, decoded, 2)
	assert.InDelta(t, path[0].Lat, decoded[0][0], 1e-5)
	assert.InDelta(t, path[0].Lon, decoded[0][1], 1e-5)
	assert.InDelta(t, path[1].Lat, decoded[1][0], 1e-5)
	assert.InDelta(t, path[1].Lon, decoded[1][1], 1e-5)
}
