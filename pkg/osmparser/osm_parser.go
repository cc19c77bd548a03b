package osmparser

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
	"github.com/lintang-b-s/roadmerge/pkg/geo"
	"github.com/lintang-b-s/roadmerge/pkg/util"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type nodeCoord struct {
	lat float64
	lon float64
}

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	nodeIDMap       map[int64]int32
	roadClassIDMap  map[string]uint8
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		nodeIDMap:       make(map[int64]int32),
		roadClassIDMap:  make(map[string]uint8),
	}
}

func (p *OsmParser) roadClassID(highway string) uint8 {
	if id, ok := p.roadClassIDMap[highway]; ok {
		return id
	}
	id := uint8(len(p.roadClassIDMap))
	p.roadClassIDMap[highway] = id
	return id
}

var skipHighway = map[string]struct{}{
	"construction":           {},
	"proposed":               {},
	"bridleway":              {},
	"corridor":               {},
	"street_lamp":            {},
	"bus_stop":               {},
	"crossing":               {},
	"elevator":               {},
	"emergency_bay":          {},
	"emergency_access_point": {},
	"give_way":               {},
	"phone":                  {},
	"ladder":                 {},
	"milestone":              {},
	"passing_place":          {},
	"platform":               {},
	"speed_camera":           {},
	"bus_guideway":           {},
	"speed_display":          {},
	"stop":                   {},
	"toll_gantry":            {},
	"traffic_mirror":         {},
	"traffic_signals":        {},
	"trailhead":              {},
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	_, skip := skipHighway[highway]
	return !skip
}

func travelModeFromHighway(highway string) datastructure.TravelMode {
	switch highway {
	case "footway", "path", "pedestrian", "steps":
		return datastructure.TravelModeWalking
	case "cycleway":
		return datastructure.TravelModeCycling
	default:
		return datastructure.TravelModeDriving
	}
}

/*
Parse. two scans over the pbf: the first classifies way nodes (end, pure
geometry, junction), the second records node coordinates and builds the road
network. every physical segment between decision nodes becomes a forward and a
backward directed edge; on oneway segments the against-travel twin is marked
Reversed.
*/
func (p *OsmParser) Parse(mapFile string) (*datastructure.RoadNetwork, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		for i, node := range way.Nodes {
			if _, ok := p.wayNodeMap[int64(node.ID)]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[int64(node.ID)] = END_NODE
				} else {
					p.wayNodeMap[int64(node.ID)] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[int64(node.ID)] = JUNCTION_NODE
			}
		}
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	graph := datastructure.NewRoadNetwork()
	scanner = osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	defer scanner.Close()

	countWays = 0
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			if (countNodes+1)%500000 == 0 {
				log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			node := o.(*osm.Node)
			if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
				p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
			}
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 || !acceptOsmWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Printf("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++
			p.processWay(way, graph)
		}
	}

	log.Printf("road network: %d nodes, %d directed edges", graph.NumNodes(), graph.NumEdges())
	return graph, nil
}

func isOneway(way *osm.Way) (oneway bool, reversedOrder bool) {
	onewayTag := way.Tags.Find("oneway")
	junction := way.Tags.Find("junction")
	switch onewayTag {
	case "yes", "1", "true":
		return true, false
	case "-1", "reverse":
		return true, true
	case "no":
		return false, false
	}
	// roundabouts and motorways are implicitly oneway
	if junction == "roundabout" || junction == "circular" ||
		way.Tags.Find("highway") == "motorway" {
		return true, false
	}
	return false, false
}

func (p *OsmParser) processWay(way *osm.Way, graph *datastructure.RoadNetwork) {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")

	oneway, reversedOrder := isOneway(way)

	wayNodes := way.Nodes
	if reversedOrder {
		wayNodes = util.ReverseG(wayNodes)
	}

	lanes := 0
	if lanesTag := way.Tags.Find("lanes"); lanesTag != "" {
		if parsed, err := strconv.Atoi(lanesTag); err == nil && parsed > 0 && parsed < 256 {
			lanes = parsed
		}
	}

	classification := datastructure.NewRoadClassification(
		p.roadClassID(strings.TrimSuffix(highway, "_link")),
		boolToUint8(strings.HasSuffix(highway, "_link")),
		uint8(lanes),
	)
	streetName := graph.GetTagIDMap().GetID(way.Tags.Find("name"))
	travelMode := travelModeFromHighway(highway)
	roundabout := junction == "roundabout" || junction == "circular"

	// split the way into segments between decision nodes
	segment := make([]int64, 0, len(wayNodes))
	for _, wayNode := range wayNodes {
		nodeID := int64(wayNode.ID)
		if _, ok := p.acceptedNodeMap[nodeID]; !ok {
			continue
		}
		segment = append(segment, nodeID)
		if len(segment) >= 2 && p.wayNodeMap[nodeID] == JUNCTION_NODE {
			p.addSegment(graph, segment, streetName, travelMode, roundabout, classification, oneway)
			segment = append(segment[:0], nodeID)
		}
	}
	if len(segment) >= 2 {
		p.addSegment(graph, segment, streetName, travelMode, roundabout, classification, oneway)
	}
}

func (p *OsmParser) addSegment(graph *datastructure.RoadNetwork, segment []int64,
	streetName int, travelMode datastructure.TravelMode, roundabout bool,
	classification datastructure.RoadClassification, oneway bool) {
	fromNodeID := p.graphNodeID(graph, segment[0])
	toNodeID := p.graphNodeID(graph, segment[len(segment)-1])

	pointsInBetween := make([]datastructure.Coordinate, 0, len(segment)-2)
	for _, osmNodeID := range segment[1 : len(segment)-1] {
		coord := p.acceptedNodeMap[osmNodeID]
		pointsInBetween = append(pointsInBetween, datastructure.NewCoordinate(coord.lat, coord.lon))
	}
	if len(pointsInBetween) > 2 {
		pointsInBetween = geo.RamesDouglasPeucker(pointsInBetween)
	}

	fullGeometry := make([]datastructure.Coordinate, 0, len(pointsInBetween)+2)
	fullGeometry = append(fullGeometry, graph.GetNodeCoordinate(fromNodeID))
	fullGeometry = append(fullGeometry, pointsInBetween...)
	fullGeometry = append(fullGeometry, graph.GetNodeCoordinate(toNodeID))
	dist := 0.0
	for i := 0; i+1 < len(fullGeometry); i++ {
		dist += geo.CalculateHaversineDistance(fullGeometry[i].Lat, fullGeometry[i].Lon,
			fullGeometry[i+1].Lat, fullGeometry[i+1].Lon) * 1000
	}

	reversedPoints := util.ReverseG(pointsInBetween)

	graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         fromNodeID,
		ToNodeID:           toNodeID,
		StreetName:         streetName,
		Reversed:           false,
		TravelMode:         travelMode,
		Roundabout:         roundabout,
		RoadClassification: classification,
		Dist:               dist,
		PointsInBetween:    pointsInBetween,
	})
	graph.AddEdge(datastructure.EdgeData{
		FromNodeID:         toNodeID,
		ToNodeID:           fromNodeID,
		StreetName:         streetName,
		Reversed:           oneway,
		TravelMode:         travelMode,
		Roundabout:         roundabout,
		RoadClassification: classification,
		Dist:               dist,
		PointsInBetween:    reversedPoints,
	})
}

func (p *OsmParser) graphNodeID(graph *datastructure.RoadNetwork, osmNodeID int64) int32 {
	if nodeID, ok := p.nodeIDMap[osmNodeID]; ok {
		return nodeID
	}
	coord := p.acceptedNodeMap[osmNodeID]
	nodeID := graph.AddNode(coord.lat, coord.lon)
	p.nodeIDMap[osmNodeID] = nodeID
	return nodeID
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
