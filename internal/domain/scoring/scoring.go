// Package scoring turns flattened crew rows into gauntlet rankings: pair
// ranks, per-column normalization and the top-pairs score.
package scoring

import (
	"sort"

	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/skill"
)

// Default scoring configuration constants.
const (
	DefaultTopPairs = 3
)

// ScoreColumn names the gauntlet score column in zero-max reports.
const ScoreColumn = "gauntlet_score"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTopPairs sets how many of the best normalized pair rolls are averaged.
// Values outside [1, 15] are ignored.
func WithTopPairs(k int) Option {
	return func(s *Scorer) {
		if k >= 1 && k <= skill.PairCount {
			s.topPairs = k
		}
	}
}

// WithZeroMaxHook registers fn to be called with the column name whenever a
// column is normalized to zero because its maximum is not positive.
func WithZeroMaxHook(fn func(column string)) Option {
	return func(s *Scorer) {
		if fn != nil {
			s.onZeroMax = fn
		}
	}
}

// Scorer ranks, normalizes and scores rows. It holds no per-run state and
// may be reused.
type Scorer struct {
	topPairs  int
	onZeroMax func(column string)
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		topPairs:  DefaultTopPairs,
		onZeroMax: func(string) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TopPairs reports the configured pair count.
func (s *Scorer) TopPairs() int {
	return s.topPairs
}

// RankPairs fills PairRanks, ranking each pair column independently.
func (s *Scorer) RankPairs(rows []model.Row) {
	for p := 0; p < skill.PairCount; p++ {
		ranks := MinRank(pairRolls(rows, p))
		for i := range rows {
			rows[i].PairRanks[p] = ranks[i]
		}
	}
}

// NormalizePairs fills PairNorms, normalizing each pair column against its
// own maximum.
func (s *Scorer) NormalizePairs(rows []model.Row) {
	pairs := skill.Pairs()
	for p := 0; p < skill.PairCount; p++ {
		norms, ok := Normalize(pairRolls(rows, p))
		if !ok && len(rows) > 0 {
			s.onZeroMax(pairs[p].Name())
		}
		for i := range rows {
			rows[i].PairNorms[p] = norms[i]
		}
	}
}

// Score sets GauntletScore from the best normalized pair values of each row,
// then GauntletScoreNorm and GauntletRank across rows.
func (s *Scorer) Score(rows []model.Row) {
	scores := make([]float64, len(rows))
	for i := range rows {
		rows[i].GauntletScore = TopMean(rows[i].PairNorms[:], s.topPairs)
		scores[i] = rows[i].GauntletScore
	}

	norms, ok := Normalize(scores)
	if !ok && len(rows) > 0 {
		s.onZeroMax(ScoreColumn)
	}
	ranks := MinRank(scores)
	for i := range rows {
		rows[i].GauntletScoreNorm = norms[i]
		rows[i].GauntletRank = ranks[i]
	}
}

// Compute runs every stage after fetching and returns the table sorted by
// gauntlet rank.
func (s *Scorer) Compute(crew []model.Crew) *model.Table {
	rows := Flatten(crew)
	Combine(rows)
	s.RankPairs(rows)
	s.NormalizePairs(rows)
	s.Score(rows)
	SortByRank(rows)
	return &model.Table{Pairs: skill.Pairs(), Rows: rows}
}

// SortByRank orders rows by ascending GauntletRank. Rows sharing a rank keep
// their relative order.
func SortByRank(rows []model.Row) {
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].GauntletRank < rows[b].GauntletRank
	})
}

// pairRolls extracts pair column p.
func pairRolls(rows []model.Row, p int) []float64 {
	out := make([]float64, len(rows))
	for i := range rows {
		out[i] = rows[i].PairRolls[p]
	}
	return out
}
