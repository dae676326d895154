package rules

import (
	"cmp"
	"slices"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

func ShapeValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("shape_distance", validateShapeDistance),
	}
}

type shapePointRow struct {
	row int
	pt  *gtfs.ShapePoint
}

// shape_dist_traveled must not decrease along a shape.
func validateShapeDistance(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Shapes.Usable() || !feed.Shapes.HasColumn("shape_dist_traveled") {
		return
	}
	shapes := newGrouped[string, shapePointRow]()
	for row, p := range feed.Shapes.All() {
		if p.Sequence != nil {
			shapes.add(p.ShapeID, shapePointRow{row: row, pt: p})
		}
	}
	shapes.each(func(id string, pts []shapePointRow) {
		slices.SortStableFunc(pts, func(a, b shapePointRow) int {
			return cmp.Compare(*a.pt.Sequence, *b.pt.Sequence)
		})
		var prev *shapePointRow
		for i := range pts {
			cur := &pts[i]
			if cur.pt.DistTraveled == nil {
				continue
			}
			if prev != nil && *cur.pt.DistTraveled < *prev.pt.DistTraveled {
				sink.Add(rowNotice(CodeDecreasingShapeDistance, notice.Error, "shape_dist_traveled decreases along the shape", gtfs.FileShapes, cur.row).
					Str("shapeId", id).
					Int("shapePtSequence", *cur.pt.Sequence).
					Float("shapeDistTraveled", *cur.pt.DistTraveled).
					Int("prevCsvRowNumber", prev.row).
					Int("prevShapePtSequence", *prev.pt.Sequence).
					Float("prevShapeDistTraveled", *prev.pt.DistTraveled))
			}
			prev = cur
		}
	})
}
