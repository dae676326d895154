package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator/rules"
)

func TestShapeDistance(t *testing.T) {
	cases := []struct {
		name   string
		points string
		want   []int
	}{
		{
			name:   "increasing",
			points: "SH1,48.80,2.30,1,0\nSH1,48.81,2.31,2,1.5\nSH1,48.82,2.32,3,3.0\n",
		},
		{
			name:   "equal distances are allowed",
			points: "SH1,48.80,2.30,1,0\nSH1,48.81,2.31,2,1.5\nSH1,48.82,2.32,3,1.5\n",
		},
		{
			name:   "decreasing",
			points: "SH1,48.80,2.30,1,0\nSH1,48.81,2.31,2,1.5\nSH1,48.82,2.32,3,1.2\n",
			want:   []int{4},
		},
		{
			name:   "ordered by sequence, not by row",
			points: "SH1,48.82,2.32,3,3.0\nSH1,48.80,2.30,1,0\nSH1,48.81,2.31,2,3.5\n",
			want:   []int{2},
		},
		{
			name:   "shapes are independent",
			points: "SH1,48.80,2.30,1,5\nSH2,48.81,2.31,1,0\nSH1,48.82,2.32,2,6\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			files := baseFiles()
			files["shapes.txt"] = []byte("shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_dist_traveled\n" + tc.points)

			sink := run(t, "shape_distance", files, nil)

			var rows []int
			for _, n := range sink.Notices() {
				assert.Equal(t, rules.CodeDecreasingShapeDistance, n.Code)
				rows = append(rows, n.Row)
			}
			assert.Equal(t, tc.want, rows)
		})
	}
}

func TestShapeDistance_NoticeFields(t *testing.T) {
	files := baseFiles()
	files["shapes.txt"] = []byte("shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_dist_traveled\n" +
		"SH1,48.80,2.30,1,2.5\n" +
		"SH1,48.81,2.31,2,1.0\n")

	sink := run(t, "shape_distance", files, nil)

	require.Equal(t, 1, sink.Len())
	n := sink.Notices()[0]
	assert.Equal(t, "SH1", strField(t, n, "shapeId"))
	assert.Equal(t, 2, intField(t, n, "shapePtSequence"))
	assert.Equal(t, 2, intField(t, n, "prevCsvRowNumber"))
	assert.Equal(t, 1, intField(t, n, "prevShapePtSequence"))
}

func TestShapeDistance_ColumnAbsent(t *testing.T) {
	files := baseFiles()
	files["shapes.txt"] = []byte("shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
		"SH1,48.80,2.30,1\nSH1,48.81,2.31,2\n")

	assert.Zero(t, run(t, "shape_distance", files, nil).Len())
}
