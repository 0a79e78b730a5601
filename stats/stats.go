// Package stats summarizes emulator execution counts as data frames.
package stats

import (
	"sort"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/sarchlab/svesim/insts"
)

// OpCountFrame converts per-operation execution counts into a data
// frame with one row per operation, sorted by descending count with
// operation name breaking ties.
func OpCountFrame(counts map[insts.Op]uint64) *dataframe.DataFrame {
	type row struct {
		name  string
		count uint64
	}

	rows := make([]row, 0, len(counts))
	for op, n := range counts {
		rows = append(rows, row{name: op.String(), count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	names := make([]interface{}, len(rows))
	values := make([]interface{}, len(rows))
	for i, r := range rows {
		names[i] = r.name
		values[i] = int64(r.count)
	}

	return dataframe.NewDataFrame(
		dataframe.NewSeriesString("op", nil, names...),
		dataframe.NewSeriesInt64("count", nil, values...),
	)
}

// Total sums all operation counts.
func Total(counts map[insts.Op]uint64) uint64 {
	var total uint64
	for _, n := range counts {
		total += n
	}
	return total
}
