package guidance

import (
	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
	"github.com/lintang-b-s/roadmerge/pkg/geo"
)

// MergableRoadData. a directed edge leaving the intersection under inspection
// plus its outgoing bearing there.
type MergableRoadData struct {
	EdgeID  int32
	Bearing float64
}

/*
MergableRoadDetector. decides whether two outgoing roads at an intersection
are the two one-way carriageways of a single physical road (divided highway,
a road briefly splitting around an obstacle, a junction that reconnects a few
meter later). pure read-only decision over the graph, safe to call
concurrently for independent intersections.
*/
type MergableRoadDetector struct {
	graph               RoadNetwork
	intersectionBuilder *IntersectionBuilder
	coordinateExtractor *CoordinateExtractor
}

func NewMergableRoadDetector(graph RoadNetwork, intersectionBuilder *IntersectionBuilder,
	coordinateExtractor *CoordinateExtractor) *MergableRoadDetector {
	return &MergableRoadDetector{
		graph:               graph,
		intersectionBuilder: intersectionBuilder,
		coordinateExtractor: coordinateExtractor,
	}
}

/*
CanMergeRoad. a fixed pipeline of cheap-to-expensive filters. every filter can
short-circuit to false; ConnectAgain and IsNarrowTriangle can short-circuit to
true. ConnectAgain must run before the link-road filter, genuine reconnections
can look like link roads.
*/
func (d *MergableRoadDetector) CanMergeRoad(intersectionNodeID int32, lhs, rhs MergableRoadData) bool {
	// roads should be somewhat close
	if geo.AngularDeviation(lhs.Bearing, rhs.Bearing) > MAX_MERGE_BEARING_DEVIATION {
		return false
	}

	lhsEdge := d.graph.GetEdgeData(lhs.EdgeID)
	rhsEdge := d.graph.GetEdgeData(rhs.EdgeID)

	// roundabout topology must never be folded into road merging
	if lhsEdge.Roundabout || rhsEdge.Roundabout {
		return false
	}

	if !d.RoadDataIsCompatible(lhsEdge, rhsEdge) {
		return false
	}

	/* don't use any circular links, they mess up the detection below
	 *
	 *          / -- \
	 * a ---- b - - /
	 */
	if d.graph.GetTarget(lhs.EdgeID) == intersectionNodeID ||
		d.graph.GetTarget(rhs.EdgeID) == intersectionNodeID {
		return false
	}

	// don't merge turning circles / traffic loops
	if d.IsTrafficLoop(intersectionNodeID, lhs) || d.IsTrafficLoop(intersectionNodeID, rhs) {
		return false
	}

	// needs to be checked prior to link roads, since connections can seem like links
	if d.ConnectAgain(intersectionNodeID, lhs, rhs) {
		return true
	}

	if d.IsLinkRoad(intersectionNodeID, lhs) || d.IsLinkRoad(intersectionNodeID, rhs) {
		return false
	}

	// check if we simply split up prior to an intersection. the triangle walk
	// is left/right sensitive, probe both assignments so the verdict does not
	// depend on argument order
	if d.IsNarrowTriangle(intersectionNodeID, lhs, rhs) ||
		d.IsNarrowTriangle(intersectionNodeID, rhs, lhs) {
		return true
	}

	return d.HaveSameDirection(intersectionNodeID, lhs, rhs)
}

/*
RoadDataIsCompatible. both edges must describe the same physical road: one
reversed and one non-reversed (opposite carriageways), same travel mode (a
merge across modes would hide legitimate mode-specific choices), identical
street name (merging is severe, similarity is not enough), identical
classification including lane count.
*/
func (d *MergableRoadDetector) RoadDataIsCompatible(lhsEdge, rhsEdge datastructure.EdgeData) bool {
	if lhsEdge.Reversed == rhsEdge.Reversed {
		return false
	}

	if lhsEdge.TravelMode != rhsEdge.TravelMode {
		return false
	}

	if lhsEdge.StreetName != rhsEdge.StreetName {
		return false
	}

	return lhsEdge.RoadClassification.Equal(rhsEdge.RoadClassification)
}

// IsTrafficLoop. does the road, followed past pass-through nodes, loop right
// back to the intersection (e.g. a turning circle)?
func (d *MergableRoadDetector) IsTrafficLoop(intersectionNodeID int32, road MergableRoadData) bool {
	connection := d.intersectionBuilder.SkipDegreeTwoNodes(intersectionNodeID, road.EdgeID)
	return intersectionNodeID == d.graph.GetTarget(connection.ViaEdgeID)
}

/*
ConnectAgain. some roads split and reconnect within a very short distance (an
obstacle detour, a median). follow both sides to their first decision points;
if they resolve to the same node, check degree-three name homogeneity at both
ends. both ends homogeneous is a strong topological signal; one end requires
the reconnection to happen within CONNECT_AGAIN_MAX_DISTANCE.
*/
func (d *MergableRoadDetector) ConnectAgain(intersectionNodeID int32, lhs, rhs MergableRoadData) bool {
	leftConnection := d.intersectionBuilder.SkipDegreeTwoNodes(intersectionNodeID, lhs.EdgeID)
	rightConnection := d.intersectionBuilder.SkipDegreeTwoNodes(intersectionNodeID, rhs.EdgeID)

	leftCandidate := d.graph.GetTarget(leftConnection.ViaEdgeID)
	rightCandidate := d.graph.GetTarget(rightConnection.ViaEdgeID)

	if leftCandidate != rightCandidate || leftCandidate == intersectionNodeID {
		return false
	}

	allSameNameAndDegreeThree := func(nodeID int32) bool {
		outEdges := d.graph.GetNodeOutEdges(nodeID)
		if len(outEdges) != 3 {
			return false
		}
		requiredName := d.graph.GetEdgeData(outEdges[0]).StreetName
		for _, edgeID := range outEdges {
			if d.graph.GetEdgeData(edgeID).StreetName != requiredName {
				return false
			}
		}
		return true
	}

	degreeThreeConnectIn := allSameNameAndDegreeThree(intersectionNodeID)
	degreeThreeConnectOut := allSameNameAndDegreeThree(leftCandidate)

	if !degreeThreeConnectIn && !degreeThreeConnectOut {
		return false
	}

	if degreeThreeConnectIn && degreeThreeConnectOut {
		return true
	}

	entry := d.graph.GetNodeCoordinate(intersectionNodeID)
	reconnection := d.graph.GetNodeCoordinate(leftCandidate)
	distanceBetweenCandidates := geo.CalculateHaversineDistance(entry.Lat, entry.Lon,
		reconnection.Lat, reconnection.Lon) * 1000

	return distanceBetweenCandidates < CONNECT_AGAIN_MAX_DISTANCE
}

/*
IsNarrowTriangle. a road splitting into two narrow branches that reconnect
right after, forming a small triangular island:

	b ..... c
	 \     /
	  \   /
	   \ /
	    a

looking along the left branch a->b, a narrow triangle offers a turn to the
right (90) connecting over to c, and the two branch apexes lie within the
bridgeable road width.
*/
func (d *MergableRoadDetector) IsNarrowTriangle(intersectionNodeID int32, lhs, rhs MergableRoadData) bool {
	leftAccumulator := NewIntersectionFinderAccumulator(SEARCH_HOP_LIMIT)
	rightAccumulator := NewIntersectionFinderAccumulator(SEARCH_HOP_LIMIT)

	// both roads share name and classification here, any of the two works for
	// the selector setup
	selector := NewSelectStraightmostRoadByNameAndOnlyChoice(
		d.graph.GetEdgeData(lhs.EdgeID).StreetName, false)

	walker := NewGraphWalker(d.graph, d.intersectionBuilder)
	walker.TraverseRoad(intersectionNodeID, lhs.EdgeID, leftAccumulator, selector)

	// if the intersection does not offer a right turn, continue once more,
	// skipping over a single small side street
	if turn, ok := leftAccumulator.Intersection.FindClosestTurn(90); !ok ||
		geo.AngularDeviation(turn.Angle, 90) > NARROW_TURN_ANGLE {
		straight, ok := leftAccumulator.Intersection.FindClosestTurn(STRAIGHT_ANGLE)
		if !ok {
			return false
		}
		walker.TraverseRoad(d.graph.GetTarget(leftAccumulator.ViaEdgeID),
			straight.EdgeID, leftAccumulator, selector)
	}

	entry := d.graph.GetNodeCoordinate(intersectionNodeID)
	leftApex := d.graph.GetNodeCoordinate(d.graph.GetTarget(leftAccumulator.ViaEdgeID))
	distanceToTriangle := geo.CalculateHaversineDistance(entry.Lat, entry.Lon,
		leftApex.Lat, leftApex.Lon) * 1000

	// don't move too far down the road
	if distanceToTriangle > MAX_TRIANGLE_DISTANCE {
		return false
	}

	walker.TraverseRoad(intersectionNodeID, rhs.EdgeID, rightAccumulator, selector)
	if turn, ok := rightAccumulator.Intersection.FindClosestTurn(270); !ok ||
		geo.AngularDeviation(turn.Angle, 270) > NARROW_TURN_ANGLE {
		straight, ok := rightAccumulator.Intersection.FindClosestTurn(STRAIGHT_ANGLE)
		if !ok {
			return false
		}
		walker.TraverseRoad(d.graph.GetTarget(rightAccumulator.ViaEdgeID),
			straight.EdgeID, rightAccumulator, selector)
	}

	connectorTurn, ok := leftAccumulator.Intersection.FindClosestTurn(90)
	if !ok {
		return false
	}
	// the right turn at the left apex has to connect over to the right branch
	if geo.AngularDeviation(connectorTurn.Angle, 90) > NARROW_TURN_ANGLE {
		return false
	}

	numLanes := func(road MergableRoadData) float64 {
		lanes := d.graph.GetEdgeData(road.EdgeID).RoadClassification.Lanes
		if lanes < 1 {
			lanes = 1
		}
		return float64(lanes)
	}

	// the width we can bridge at the intersection
	assumedRoadWidth := (numLanes(lhs) + numLanes(rhs)) * ASSUMED_LANE_WIDTH
	rightApex := d.graph.GetNodeCoordinate(d.graph.GetTarget(rightAccumulator.ViaEdgeID))
	distanceBetweenTriangleCorners := geo.CalculateHaversineDistance(leftApex.Lat, leftApex.Lon,
		rightApex.Lat, rightApex.Lon) * 1000
	if distanceBetweenTriangleCorners > assumedRoadWidth+TRIANGLE_WIDTH_MARGIN {
		return false
	}

	// check that both apexes are actually connected
	connectAccumulator := NewIntersectionFinderAccumulator(SEARCH_HOP_LIMIT)
	walker.TraverseRoad(d.graph.GetTarget(leftAccumulator.ViaEdgeID),
		connectorTurn.EdgeID, connectAccumulator, selector)
	return d.graph.GetTarget(connectAccumulator.ViaEdgeID) ==
		d.graph.GetTarget(rightAccumulator.ViaEdgeID)
}

/*
HaveSameDirection. the pipeline fallback: extract up to DISTANCE_TO_EXTRACT
meter of polyline along both roads, resample, drop the noisy first third near
the intersection and test the remainders for geometric parallelism within the
assumed combined road width.
*/
func (d *MergableRoadDetector) HaveSameDirection(intersectionNodeID int32, lhs, rhs MergableRoadData) bool {
	if geo.AngularDeviation(lhs.Bearing, rhs.Bearing) > MAX_MERGE_BEARING_DEVIATION {
		return false
	}

	walker := NewGraphWalker(d.graph, d.intersectionBuilder)
	getCoordinatesAlongRoad := func(edgeID int32, maxLength float64) (float64, []datastructure.Coordinate) {
		accumulator := NewLengthLimitedCoordinateAccumulator(d.coordinateExtractor, maxLength)
		selector := NewSelectStraightmostRoadByNameAndOnlyChoice(
			d.graph.GetEdgeData(edgeID).StreetName, false)
		walker.TraverseRoad(intersectionNodeID, edgeID, accumulator, selector)
		return accumulator.AccumulatedLength, accumulator.Coordinates
	}

	lengthToTheLeft, coordinatesToTheLeft := getCoordinatesAlongRoad(lhs.EdgeID, DISTANCE_TO_EXTRACT)

	// quit early if the road is not very long
	if lengthToTheLeft <= MIN_PARALLEL_ROAD_LENGTH {
		return false
	}

	lengthToTheRight, coordinatesToTheRight := getCoordinatesAlongRoad(rhs.EdgeID, DISTANCE_TO_EXTRACT)
	if lengthToTheRight <= MIN_PARALLEL_ROAD_LENGTH {
		return false
	}

	coordinatesToTheLeft = d.coordinateExtractor.SampleCoordinates(coordinatesToTheLeft,
		DISTANCE_TO_EXTRACT, PARALLEL_SAMPLE_POINTS)
	coordinatesToTheRight = d.coordinateExtractor.SampleCoordinates(coordinatesToTheRight,
		DISTANCE_TO_EXTRACT, PARALLEL_SAMPLE_POINTS)

	// near-intersection geometry is noisy, drop the first third
	prune := func(coordinates []datastructure.Coordinate) []datastructure.Coordinate {
		return coordinates[len(coordinates)/3:]
	}
	coordinatesToTheLeft = prune(coordinatesToTheLeft)
	coordinatesToTheRight = prune(coordinatesToTheRight)

	if !geo.AreParallel(coordinatesToTheLeft, coordinatesToTheRight) {
		return false
	}

	distanceBetweenRoads := geo.FindClosestDistance(
		coordinatesToTheLeft[len(coordinatesToTheLeft)/2], coordinatesToTheRight)

	lanes := func(edgeID int32) float64 {
		numLanes := d.graph.GetEdgeData(edgeID).RoadClassification.Lanes
		if numLanes < 1 {
			numLanes = 1
		}
		return float64(numLanes)
	}
	combinedRoadWidth := 0.5 * (lanes(lhs.EdgeID) + lanes(rhs.EdgeID)) * ASSUMED_LANE_WIDTH
	return distanceBetweenRoads <= combinedRoadWidth+PARALLEL_DISTANCE_MARGIN
}

/*
IsLinkRoad. is the road a short connector/ramp onto a larger road? follow it
to the next decision point, find the continuing road (closest to straight,
different name) and the turn opposite to it. a link road connects two nearly
collinear, mutually compatible carriageways.
*/
func (d *MergableRoadDetector) IsLinkRoad(intersectionNodeID int32, road MergableRoadData) bool {
	next := d.intersectionBuilder.SkipDegreeTwoNodes(intersectionNodeID, road.EdgeID)
	nextIntersection := d.intersectionBuilder.GetConnectedRoads(next.NodeID, next.ViaEdgeID)

	requestedName := d.graph.GetEdgeData(road.EdgeID).StreetName
	nameDiffers := func(candidate IntersectionShapeData) bool {
		return d.graph.GetEdgeData(candidate.EdgeID).StreetName != requestedName
	}

	// we need a continuing road to successfully detect a link road
	nextRoadAlongPath, ok := nextIntersection.FindClosestTurn(STRAIGHT_ANGLE, nameDiffers)
	if !ok {
		return false
	}

	oppositeOfNextRoad, ok := nextIntersection.FindClosestTurn(
		geo.RestrictAngleToValidRange(nextRoadAlongPath.Angle + 180))
	if !ok {
		return false
	}

	// we cannot be looking at the same road we came from
	if d.graph.GetTarget(oppositeOfNextRoad.EdgeID) == next.NodeID {
		return false
	}

	// check if the opposite pick was sane, it could just as well be our own
	// incoming road
	if geo.AngularDeviation(
		geo.AngularDeviation(nextRoadAlongPath.Angle, STRAIGHT_ANGLE),
		geo.AngularDeviation(oppositeOfNextRoad.Angle, 0)) < FUZZY_ANGLE_DIFFERENCE {
		return false
	}

	// near straight road that continues
	return geo.AngularDeviation(oppositeOfNextRoad.Angle, nextRoadAlongPath.Angle) >= MIN_COLLINEAR_ANGLE &&
		d.RoadDataIsCompatible(d.graph.GetEdgeData(nextRoadAlongPath.EdgeID),
			d.graph.GetEdgeData(oppositeOfNextRoad.EdgeID))
}
