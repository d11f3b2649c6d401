// Package model contains domain models passed between layers.
package model

import (
	"github.com/okian/gauntlet/internal/domain/skill"
)

// SkillRange is one entry of a crew record's base_skills object.
type SkillRange struct {
	Core     *int `json:"core"`
	RangeMin int  `json:"range_min"`
	RangeMax int  `json:"range_max"`
}

// Crew is a crew record as served by the data source. Only the fields the
// gauntlet needs are decoded.
type Crew struct {
	Name       string                `json:"name"`
	BaseSkills map[string]SkillRange `json:"base_skills"`
}

// SkillValues holds the flattened values of one skill on a row.
type SkillValues struct {
	RangeMin int
	RangeMax int
	Core     *int    // raw, may be nil
	Roll     float64 // (RangeMin+RangeMax)/2
}

// Row is the flattened, fully derived view of one crew.
type Row struct {
	Name string

	// Skills is indexed by skill.Skill.Index(); nil marks an absent skill.
	Skills [skill.Count]*SkillValues

	// Pair columns, indexed like skill.Pairs().
	PairRolls [skill.PairCount]float64
	PairRanks [skill.PairCount]int
	PairNorms [skill.PairCount]float64

	GauntletScore     float64
	GauntletScoreNorm float64
	GauntletRank      int
}

// Skill returns the values of s and whether the crew has that skill.
func (r *Row) Skill(s skill.Skill) (SkillValues, bool) {
	i := s.Index()
	if i < 0 || r.Skills[i] == nil {
		return SkillValues{}, false
	}
	return *r.Skills[i], true
}

// Roll returns the roll of s, or 0 when the crew lacks it.
func (r *Row) Roll(s skill.Skill) float64 {
	v, ok := r.Skill(s)
	if !ok {
		return 0
	}
	return v.Roll
}

// Table is the ranked result of one run.
type Table struct {
	// Pairs names the pair columns of every row, in column order.
	Pairs []skill.Pair
	// Rows are sorted by GauntletRank once the pipeline finishes.
	Rows []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
