package geo_test

import (
	"testing"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
	"github.com/lintang-b-s/roadmerge/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestRamesDouglasPeucker(t *testing.T) {
	t.Run("drops points within the threshold", func(t *testing.T) {
		// 3 meter of sideways wobble on a 200 meter line
		line := []datastructure.Coordinate{
			coordAt(0, 0),
			coordAt(50, 3),
			coordAt(100, -3),
			coordAt(150, 3),
			coordAt(200, 0),
		}
		simplified := geo.RamesDouglasPeucker(line)

		assert.Equal(t, []datastructure.Coordinate{line[0], line[4]}, simplified)
	})

	t.Run("keeps a sharp corner", func(t *testing.T) {
		corner := []datastructure.Coordinate{
			coordAt(0, 0),
			coordAt(100, 0),
			coordAt(100, 100),
		}
		simplified := geo.RamesDouglasPeucker(corner)

		assert.Equal(t, corner, simplified)
	})

	t.Run("short input unchanged", func(t *testing.T) {
		point := []datastructure.Coordinate{coordAt(0, 0)}
		assert.Equal(t, point, geo.RamesDouglasPeucker(point))
	})
}

func TestPointLinePerpendicularDistance(t *testing.T) {
	dist := geo.PointLinePerpendicularDistance(coordAt(0, 0), coordAt(100, 0), coordAt(50, 12))
	assert.InDelta(t, 12, dist, 0.1)
}
