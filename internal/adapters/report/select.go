package report

import (
	"cmp"
	"slices"

	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/types"
)

// Columns returns the header for tbl: name, gauntlet_score_norm,
// gauntlet_rank, then one rank column per pair.
func Columns(tbl *model.Table) []string {
	cols := make([]string, len(tbl.Pairs))
	for i, p := range tbl.Pairs {
		cols[i] = p.RankColumn()
	}
	return types.Header(cols)
}

// Select orders rows by ascending gauntlet rank (ties keep table order) and
// projects the first n onto entries. n <= 0 selects nothing.
func Select(tbl *model.Table, n int) []types.Entry {
	n = min(max(n, 0), tbl.Len())
	if n == 0 {
		return nil
	}
	order := make([]int, tbl.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(tbl.Rows[a].GauntletRank, tbl.Rows[b].GauntletRank)
	})
	order = order[:n]

	entries := make([]types.Entry, len(order))
	for i, idx := range order {
		row := &tbl.Rows[idx]
		entries[i] = types.Entry{
			Name:              row.Name,
			GauntletScoreNorm: row.GauntletScoreNorm,
			GauntletRank:      row.GauntletRank,
			PairRanks:         slices.Clone(row.PairRanks[:len(tbl.Pairs)]),
		}
	}
	return entries
}
