package guidance

import (
	"github.com/lintang-b-s/roadmerge/pkg/geo"
	"github.com/lintang-b-s/roadmerge/pkg/util"
)

/*
IntersectionShapeData. one outgoing road at an intersection. Bearing is the
absolute departure bearing, Angle is the turn angle relative to the arrival
direction: 0 is the u-turn back along the incoming road, 180 is straight
ahead, 90 a right turn, 270 a left turn.
*/
type IntersectionShapeData struct {
	EdgeID  int32
	Bearing float64
	Angle   float64
}

// IntersectionShape. all outgoing roads at a node, sorted by turn angle so the
// u-turn entry comes first.
type IntersectionShape []IntersectionShapeData

/*
FindClosestTurn. the road minimizing angular deviation from targetAngle.
optional filters restrict the candidates (a road is eligible only when every
filter returns true). ties keep the first road in shape order.
*/
func (shape IntersectionShape) FindClosestTurn(targetAngle float64,
	filters ...func(road IntersectionShapeData) bool) (IntersectionShapeData, bool) {
	var (
		closest   IntersectionShapeData
		found     bool
		deviation = 361.0
	)
	for _, road := range shape {
		eligible := true
		for _, filter := range filters {
			if !filter(road) {
				eligible = false
				break
			}
		}
		if !eligible {
			continue
		}
		if dev := geo.AngularDeviation(road.Angle, targetAngle); dev < deviation {
			deviation = dev
			closest = road
			found = true
		}
	}
	return closest, found
}

// IntersectionGenerationParameters. a node and the edge leaving it whose
// target is the intersection of interest.
type IntersectionGenerationParameters struct {
	NodeID    int32
	ViaEdgeID int32
}

type IntersectionBuilder struct {
	graph RoadNetwork
}

func NewIntersectionBuilder(graph RoadNetwork) *IntersectionBuilder {
	return &IntersectionBuilder{graph: graph}
}

// DepartureBearing. bearing at which an edge leaves its from-node, following
// the first stretch of edge geometry.
func (ib *IntersectionBuilder) DepartureBearing(edgeID int32) float64 {
	edge := ib.graph.GetEdgeData(edgeID)
	from := ib.graph.GetNodeCoordinate(edge.FromNodeID)
	next := ib.graph.GetNodeCoordinate(edge.ToNodeID)
	if len(edge.PointsInBetween) > 0 {
		next = edge.PointsInBetween[0]
	}
	return geo.BearingTo(from.Lat, from.Lon, next.Lat, next.Lon)
}

// ArrivalBearing. bearing at which an edge arrives at its target, following
// the last stretch of edge geometry.
func (ib *IntersectionBuilder) ArrivalBearing(edgeID int32) float64 {
	edge := ib.graph.GetEdgeData(edgeID)
	prev := ib.graph.GetNodeCoordinate(edge.FromNodeID)
	to := ib.graph.GetNodeCoordinate(edge.ToNodeID)
	if len(edge.PointsInBetween) > 0 {
		prev = edge.PointsInBetween[len(edge.PointsInBetween)-1]
	}
	return geo.BearingTo(prev.Lat, prev.Lon, to.Lat, to.Lon)
}

/*
GetConnectedRoads. the intersection shape at the target of viaEdgeID, arriving
via viaEdgeID from nodeID. turn angles are measured against the arrival
direction so that the reverse of the incoming road sits at angle 0.
*/
func (ib *IntersectionBuilder) GetConnectedRoads(nodeID, viaEdgeID int32) IntersectionShape {
	intersectionNode := ib.graph.GetTarget(viaEdgeID)
	arrivalBearing := ib.ArrivalBearing(viaEdgeID)

	outEdges := ib.graph.GetNodeOutEdges(intersectionNode)
	shape := make(IntersectionShape, 0, len(outEdges))
	for _, outEdgeID := range outEdges {
		departureBearing := ib.DepartureBearing(outEdgeID)
		angle := geo.RestrictAngleToValidRange(arrivalBearing - departureBearing + 540)
		shape = append(shape, IntersectionShapeData{
			EdgeID:  outEdgeID,
			Bearing: departureBearing,
			Angle:   angle,
		})
	}

	return util.QuickSortG(shape, func(a, b IntersectionShapeData) int {
		if a.Angle < b.Angle {
			return -1
		} else if a.Angle > b.Angle {
			return 1
		}
		return 0
	})
}

/*
SkipDegreeTwoNodes. follow viaEdgeID forward over nodes that exist purely for
geometry (exactly two outgoing roads: one back, one onward) until a true
decision point is the edge target. returns the node and edge arriving there.
*/
func (ib *IntersectionBuilder) SkipDegreeTwoNodes(nodeID, viaEdgeID int32) IntersectionGenerationParameters {
	for hops := 0; hops < MAX_TRAVERSAL_HOPS; hops++ {
		target := ib.graph.GetTarget(viaEdgeID)
		if ib.graph.GetOutDegree(target) != 2 {
			break
		}

		onward := int32(-1)
		for _, outEdgeID := range ib.graph.GetNodeOutEdges(target) {
			if ib.graph.GetTarget(outEdgeID) != nodeID {
				onward = outEdgeID
			}
		}
		if onward == -1 {
			break
		}

		nodeID = target
		viaEdgeID = onward
	}
	return IntersectionGenerationParameters{NodeID: nodeID, ViaEdgeID: viaEdgeID}
}
