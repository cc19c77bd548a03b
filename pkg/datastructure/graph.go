package datastructure

type TravelMode uint8

const (
	TravelModeInaccessible TravelMode = iota
	TravelModeDriving
	TravelModeCycling
	TravelModeWalking
)

type RoadClassification struct {
	RoadClass     uint8
	RoadClassLink uint8
	Lanes         uint8
}

func NewRoadClassification(roadClass, roadClassLink, lanes uint8) RoadClassification {
	return RoadClassification{
		RoadClass:     roadClass,
		RoadClassLink: roadClassLink,
		Lanes:         lanes,
	}
}

func (rc RoadClassification) Equal(other RoadClassification) bool {
	return rc.RoadClass == other.RoadClass && rc.RoadClassLink == other.RoadClassLink &&
		rc.Lanes == other.Lanes
}

/*
EdgeData. one directed edge of the node-based road network. every physical road
segment produces a forward and a backward directed edge between the same node
pair; on oneway segments the against-travel twin has Reversed=true.
*/
type EdgeData struct {
	EdgeID             int32
	FromNodeID         int32
	ToNodeID           int32
	StreetName         int
	Reversed           bool
	TravelMode         TravelMode
	Roundabout         bool
	RoadClassification RoadClassification
	Dist               float64 // meter
	PointsInBetween    []Coordinate
}

type RoadNetwork struct {
	nodes          []Coordinate
	firstOutEdges  [][]int32
	edges          []EdgeData
	tagStringIDMap IDMap
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		nodes:          make([]Coordinate, 0),
		firstOutEdges:  make([][]int32, 0),
		edges:          make([]EdgeData, 0),
		tagStringIDMap: NewIDMap(),
	}
}

func (g *RoadNetwork) AddNode(lat, lon float64) int32 {
	nodeID := int32(len(g.nodes))
	g.nodes = append(g.nodes, NewCoordinate(lat, lon))
	g.firstOutEdges = append(g.firstOutEdges, []int32{})
	return nodeID
}

func (g *RoadNetwork) AddEdge(edge EdgeData) int32 {
	edge.EdgeID = int32(len(g.edges))
	g.edges = append(g.edges, edge)
	g.firstOutEdges[edge.FromNodeID] = append(g.firstOutEdges[edge.FromNodeID], edge.EdgeID)
	return edge.EdgeID
}

func (g *RoadNetwork) GetNodeCoordinate(nodeID int32) Coordinate {
	return g.nodes[nodeID]
}

func (g *RoadNetwork) GetEdgeData(edgeID int32) EdgeData {
	return g.edges[edgeID]
}

func (g *RoadNetwork) GetTarget(edgeID int32) int32 {
	return g.edges[edgeID].ToNodeID
}

func (g *RoadNetwork) GetOutDegree(nodeID int32) int {
	return len(g.firstOutEdges[nodeID])
}

func (g *RoadNetwork) GetNodeOutEdges(nodeID int32) []int32 {
	return g.firstOutEdges[nodeID]
}

func (g *RoadNetwork) NumNodes() int {
	return len(g.nodes)
}

func (g *RoadNetwork) NumEdges() int {
	return len(g.edges)
}

func (g *RoadNetwork) GetTagIDMap() IDMap {
	return g.tagStringIDMap
}

func (g *RoadNetwork) GetStreetNameFromID(streetName int) string {
	return g.tagStringIDMap.GetStr(streetName)
}

type IDMap struct {
	StrToID map[string]int
	IDToStr map[int]string
}

func NewIDMap() IDMap {
	return IDMap{
		StrToID: make(map[string]int),
		IDToStr: make(map[int]string),
	}
}

func (idMap IDMap) GetID(str string) int {
	if id, ok := idMap.StrToID[str]; ok {
		return id
	}
	id := len(idMap.StrToID)
	idMap.StrToID[str] = id
	idMap.IDToStr[id] = str
	return id
}

func (idMap IDMap) GetStr(id int) string {
	return idMap.IDToStr[id]
}
