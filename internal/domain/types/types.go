// Package types contains the report-facing types shared by the pipeline and
// its exporters.
package types

// Entry is one reported crew: the projection of a ranked row onto the
// exported columns.
type Entry struct {
	Name              string  `json:"name"`
	GauntletScoreNorm float64 `json:"gauntlet_score_norm"`
	GauntletRank      int     `json:"gauntlet_rank"`
	// PairRanks follows the pair column order of the table.
	PairRanks []int `json:"pair_ranks"`
}

// Header returns the exported column names for the given pair rank columns.
func Header(pairRankColumns []string) []string {
	h := make([]string, 0, 3+len(pairRankColumns))
	h = append(h, "name", "gauntlet_score_norm", "gauntlet_rank")
	return append(h, pairRankColumns...)
}
