package scoring

import (
	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/skill"
)

// Flatten projects each crew record onto a Row, one per crew, in input
// order. Skills missing from base_skills stay nil on the row; unknown
// base_skills keys are ignored.
func Flatten(crew []model.Crew) []model.Row {
	rows := make([]model.Row, len(crew))
	for i, c := range crew {
		rows[i].Name = c.Name
		for key, r := range c.BaseSkills {
			s, ok := skill.FromSourceKey(key)
			if !ok {
				continue
			}
			rows[i].Skills[s.Index()] = &model.SkillValues{
				RangeMin: r.RangeMin,
				RangeMax: r.RangeMax,
				Core:     r.Core,
				Roll:     Roll(r.RangeMin, r.RangeMax),
			}
		}
	}
	return rows
}

// Roll is the midpoint of a skill range.
func Roll(rangeMin, rangeMax int) float64 {
	return float64(rangeMin+rangeMax) / 2
}

// Combine fills PairRolls on every row with the sum of the two skill rolls
// of each pair. An absent skill adds 0.
func Combine(rows []model.Row) {
	pairs := skill.Pairs()
	for i := range rows {
		for p, pair := range pairs {
			rows[i].PairRolls[p] = rows[i].Roll(pair.First) + rows[i].Roll(pair.Second)
		}
	}
}
