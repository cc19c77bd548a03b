package guidance_test

import (
	"testing"

	"github.com/lintang-b-s/roadmerge/pkg/guidance"

	"github.com/stretchr/testify/assert"
)

func TestDetectAtIntersection(t *testing.T) {
	f, nodeI, lhs, rhs := buildDividedHighway(nil)
	pass := guidance.NewMergePass(f.graph)

	merged := pass.DetectAtIntersection(nodeI)

	assert.Len(t, merged, 1)
	assert.Equal(t, nodeI, merged[0].IntersectionNodeID)
	assert.Equal(t, lhs, merged[0].LeftEdgeID)
	assert.Equal(t, rhs, merged[0].RightEdgeID)
}

func TestMergePassFindsOnlyTheDividedHighway(t *testing.T) {
	f, nodeI, lhs, rhs := buildDividedHighway(nil)
	pass := guidance.NewMergePass(f.graph)

	merged := pass.RunSerial()

	// no other node pairs up, in particular not the twin edges of the two-way
	// approach road
	assert.Equal(t, []guidance.MergedRoadPair{
		{IntersectionNodeID: nodeI, LeftEdgeID: lhs, RightEdgeID: rhs},
	}, merged)
}

func TestMergePassParallelMatchesSerial(t *testing.T) {
	f, _, _, _ := buildDividedHighway(nil)
	pass := guidance.NewMergePass(f.graph)

	progressed := 0
	parallel := pass.Run(4, func() { progressed++ })

	assert.Equal(t, pass.RunSerial(), parallel)
	assert.Equal(t, f.graph.NumNodes(), progressed)
}
