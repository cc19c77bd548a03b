package guidance

import (
	"github.com/lintang-b-s/roadmerge/pkg/concurrent"
	"github.com/lintang-b-s/roadmerge/pkg/util"
)

type MergedRoadPair struct {
	IntersectionNodeID int32
	LeftEdgeID         int32
	RightEdgeID        int32
}

/*
MergePass. network-wide preprocessing sweep: evaluates every bearing-plausible
pair of outgoing roads at every intersection. work is partitioned by
intersection node, the detector itself performs no writes.
*/
type MergePass struct {
	graph    RoadNetwork
	builder  *IntersectionBuilder
	detector *MergableRoadDetector
}

func NewMergePass(graph RoadNetwork) *MergePass {
	builder := NewIntersectionBuilder(graph)
	extractor := NewCoordinateExtractor(graph)
	return &MergePass{
		graph:    graph,
		builder:  builder,
		detector: NewMergableRoadDetector(graph, builder, extractor),
	}
}

func (mp *MergePass) Detector() *MergableRoadDetector {
	return mp.detector
}

// DetectAtIntersection. all mergeable pairs of outgoing roads at one node.
func (mp *MergePass) DetectAtIntersection(nodeID int32) []MergedRoadPair {
	outEdges := mp.graph.GetNodeOutEdges(nodeID)
	if len(outEdges) < 2 {
		return nil
	}

	candidates := make([]MergableRoadData, 0, len(outEdges))
	for _, edgeID := range outEdges {
		candidates = append(candidates, MergableRoadData{
			EdgeID:  edgeID,
			Bearing: mp.builder.DepartureBearing(edgeID),
		})
	}

	var merged []MergedRoadPair
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if mp.detector.CanMergeRoad(nodeID, candidates[i], candidates[j]) {
				merged = append(merged, MergedRoadPair{
					IntersectionNodeID: nodeID,
					LeftEdgeID:         candidates[i].EdgeID,
					RightEdgeID:        candidates[j].EdgeID,
				})
			}
		}
	}
	return merged
}

// Run. evaluate every intersection on numWorkers goroutines. onProgress, when
// non-nil, is invoked once per finished intersection.
func (mp *MergePass) Run(numWorkers int, onProgress func()) []MergedRoadPair {
	numNodes := mp.graph.NumNodes()
	workers := concurrent.NewWorkerPool[int32, []MergedRoadPair](numWorkers, numNodes)
	for nodeID := int32(0); nodeID < int32(numNodes); nodeID++ {
		workers.AddJob(nodeID)
	}
	workers.Close()
	workers.Start(mp.DetectAtIntersection)
	workers.Wait()

	merged := make([]MergedRoadPair, 0)
	for pairs := range workers.CollectResults() {
		merged = append(merged, pairs...)
		if onProgress != nil {
			onProgress()
		}
	}
	return sortMergedPairs(merged)
}

// RunSerial. same sweep on the calling goroutine.
func (mp *MergePass) RunSerial() []MergedRoadPair {
	merged := make([]MergedRoadPair, 0)
	for nodeID := int32(0); nodeID < int32(mp.graph.NumNodes()); nodeID++ {
		merged = append(merged, mp.DetectAtIntersection(nodeID)...)
	}
	return sortMergedPairs(merged)
}

func sortMergedPairs(pairs []MergedRoadPair) []MergedRoadPair {
	return util.QuickSortG(pairs, func(a, b MergedRoadPair) int {
		if a.IntersectionNodeID != b.IntersectionNodeID {
			return int(a.IntersectionNodeID - b.IntersectionNodeID)
		}
		if a.LeftEdgeID != b.LeftEdgeID {
			return int(a.LeftEdgeID - b.LeftEdgeID)
		}
		return int(a.RightEdgeID - b.RightEdgeID)
	})
}
