package guidance

// empirically tuned thresholds. keep them named, different road-network
// regions may want different values.
const (
	// merge candidates must point in roughly the same general direction
	MAX_MERGE_BEARING_DEVIATION = 95.0

	// tolerance when matching a turn against an expected angle
	NARROW_TURN_ANGLE = 25.0

	// below this, two closest-turn picks cannot be told apart reliably
	FUZZY_ANGLE_DIFFERENCE = 15.0

	STRAIGHT_ANGLE = 180.0

	// assumed width of a single lane, in meter
	ASSUMED_LANE_WIDTH = 3.25

	// a split-and-rejoin triangle larger than this is a real fork
	MAX_TRIANGLE_DISTANCE = 80.0
	TRIANGLE_WIDTH_MARGIN = 10.0

	// reconnection with only one homogeneous end must happen within this distance
	CONNECT_AGAIN_MAX_DISTANCE = 15.0

	// parallelism check: how much polyline to extract, the minimum usable
	// road length, and how many evenly spaced samples to keep
	DISTANCE_TO_EXTRACT      = 100.0
	MIN_PARALLEL_ROAD_LENGTH = 40.0
	PARALLEL_SAMPLE_POINTS   = 5
	PARALLEL_DISTANCE_MARGIN = 8.0

	// a link road connects two nearly collinear carriageways
	MIN_COLLINEAR_ANGLE = 160.0

	// hop limit when searching for the next true decision point
	SEARCH_HOP_LIMIT = 5

	// hard cap for any forward walk, guards against malformed loops
	MAX_TRAVERSAL_HOPS = 100
)
