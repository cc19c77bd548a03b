package guidance

import (
	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
)

// Accumulator. collects state while walking forward along a road. Update sees
// every traversed edge together with the intersection shape at its target.
type Accumulator interface {
	Update(viaEdgeID int32, intersection IntersectionShape)
	Terminate() bool
}

// Selector. picks the single outgoing road continuing the walk, or reports
// that the walk is over.
type Selector interface {
	SelectTurn(graph RoadNetwork, intersection IntersectionShape, nodeID, viaEdgeID int32) (int32, bool)
}

type GraphWalker struct {
	graph   RoadNetwork
	builder *IntersectionBuilder
}

func NewGraphWalker(graph RoadNetwork, builder *IntersectionBuilder) *GraphWalker {
	return &GraphWalker{graph: graph, builder: builder}
}

// TraverseRoad. walk forward from nodeID via viaEdgeID, feeding the
// accumulator at every hop, until the accumulator terminates or the selector
// finds no continuation.
func (w *GraphWalker) TraverseRoad(nodeID, viaEdgeID int32, accumulator Accumulator, selector Selector) {
	for hops := 0; hops < MAX_TRAVERSAL_HOPS; hops++ {
		intersection := w.builder.GetConnectedRoads(nodeID, viaEdgeID)
		accumulator.Update(viaEdgeID, intersection)
		if accumulator.Terminate() {
			return
		}

		intersectionNode := w.graph.GetTarget(viaEdgeID)
		nextEdgeID, ok := selector.SelectTurn(w.graph, intersection, intersectionNode, viaEdgeID)
		if !ok {
			return
		}
		nodeID = intersectionNode
		viaEdgeID = nextEdgeID
	}
}

/*
IntersectionFinderAccumulator. remembers the last traversed edge and the
intersection at its target; stops at the first true decision point (more than
two roads) or after hopLimit hops.
*/
type IntersectionFinderAccumulator struct {
	hops     int
	hopLimit int

	ViaEdgeID    int32
	Intersection IntersectionShape
}

func NewIntersectionFinderAccumulator(hopLimit int) *IntersectionFinderAccumulator {
	return &IntersectionFinderAccumulator{hopLimit: hopLimit, ViaEdgeID: -1}
}

func (acc *IntersectionFinderAccumulator) Update(viaEdgeID int32, intersection IntersectionShape) {
	acc.hops++
	acc.ViaEdgeID = viaEdgeID
	acc.Intersection = intersection
}

func (acc *IntersectionFinderAccumulator) Terminate() bool {
	return acc.hops >= acc.hopLimit || len(acc.Intersection) > 2
}

/*
LengthLimitedCoordinateAccumulator. collects the polyline along the walk up to
maxLength meter of cumulative path length.
*/
type LengthLimitedCoordinateAccumulator struct {
	extractor *CoordinateExtractor
	maxLength float64

	AccumulatedLength float64
	Coordinates       []datastructure.Coordinate
}

func NewLengthLimitedCoordinateAccumulator(extractor *CoordinateExtractor, maxLength float64) *LengthLimitedCoordinateAccumulator {
	return &LengthLimitedCoordinateAccumulator{
		extractor:   extractor,
		maxLength:   maxLength,
		Coordinates: make([]datastructure.Coordinate, 0),
	}
}

func (acc *LengthLimitedCoordinateAccumulator) Update(viaEdgeID int32, intersection IntersectionShape) {
	coordinates := acc.extractor.ExtractCoordinates(viaEdgeID)
	length := PolylineLength(coordinates)

	remaining := acc.maxLength - acc.AccumulatedLength
	if length > remaining {
		coordinates = TrimCoordinatesToLength(coordinates, remaining)
		length = remaining
	}

	if len(acc.Coordinates) > 0 && len(coordinates) > 0 {
		// first point repeats the previous edge's target
		coordinates = coordinates[1:]
	}
	acc.Coordinates = append(acc.Coordinates, coordinates...)
	acc.AccumulatedLength += length
}

func (acc *LengthLimitedCoordinateAccumulator) Terminate() bool {
	return acc.AccumulatedLength >= acc.maxLength
}

/*
SelectStraightmostRoadByNameAndOnlyChoice. continues onto the straightmost
road sharing the requested street name; when the intersection offers a single
onward road, that sole choice wins regardless of name.
*/
type SelectStraightmostRoadByNameAndOnlyChoice struct {
	streetName    int
	requireChoice bool
}

func NewSelectStraightmostRoadByNameAndOnlyChoice(streetName int,
	requireChoice bool) *SelectStraightmostRoadByNameAndOnlyChoice {
	return &SelectStraightmostRoadByNameAndOnlyChoice{
		streetName:    streetName,
		requireChoice: requireChoice,
	}
}

func (sel *SelectStraightmostRoadByNameAndOnlyChoice) SelectTurn(graph RoadNetwork,
	intersection IntersectionShape, nodeID, viaEdgeID int32) (int32, bool) {
	if len(intersection) <= 1 {
		// dead end, only the u-turn remains
		return -1, false
	}
	if len(intersection) == 2 {
		if sel.requireChoice {
			return -1, false
		}
		return intersection[1].EdgeID, true
	}

	sameName := func(road IntersectionShapeData) bool {
		return graph.GetEdgeData(road.EdgeID).StreetName == sel.streetName
	}
	// skip the u-turn entry, a same-named road back the way we came must not
	// keep the walk alive
	straightmost, ok := intersection[1:].FindClosestTurn(STRAIGHT_ANGLE, sameName)
	if !ok {
		return -1, false
	}
	return straightmost.EdgeID, true
}
