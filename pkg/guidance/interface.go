package guidance

import "github.com/lintang-b-s/roadmerge/pkg/datastructure"

type RoadNetwork interface {
	GetEdgeData(edgeID int32) datastructure.EdgeData
	GetTarget(edgeID int32) int32
	GetOutDegree(nodeID int32) int
	GetNodeOutEdges(nodeID int32) []int32
	GetNodeCoordinate(nodeID int32) datastructure.Coordinate
	NumNodes() int
}
