// Package skill defines the six crew skills, their source keys and the
// fixed enumeration of unordered skill pairs.
package skill

import "fmt"

// Skill is a three-letter skill code.
type Skill string

// Skill codes in canonical order. Pair enumeration and column order follow
// this order.
const (
	Command     Skill = "CMD"
	Diplomacy   Skill = "DIP"
	Engineering Skill = "ENG"
	Medicine    Skill = "MED"
	Science     Skill = "SCI"
	Security    Skill = "SEC"
)

// Count is the number of known skills.
const Count = 6

// PairCount is C(6,2).
const PairCount = Count * (Count - 1) / 2

var all = [Count]Skill{Command, Diplomacy, Engineering, Medicine, Science, Security}

var sourceKeys = map[Skill]string{
	Command:     "command_skill",
	Diplomacy:   "diplomacy_skill",
	Engineering: "engineering_skill",
	Medicine:    "medicine_skill",
	Science:     "science_skill",
	Security:    "security_skill",
}

var bySourceKey = func() map[string]Skill {
	m := make(map[string]Skill, len(sourceKeys))
	for s, k := range sourceKeys {
		m[k] = s
	}
	return m
}()

// All returns the skills in canonical order.
func All() []Skill {
	out := make([]Skill, Count)
	copy(out, all[:])
	return out
}

// Index returns the canonical position of s, or -1 if s is unknown.
func (s Skill) Index() int {
	for i, k := range all {
		if k == s {
			return i
		}
	}
	return -1
}

// SourceKey returns the key used for s in the crew JSON base_skills object.
func (s Skill) SourceKey() string {
	return sourceKeys[s]
}

// FromSourceKey maps a base_skills key such as "command_skill" to its code.
func FromSourceKey(key string) (Skill, bool) {
	s, ok := bySourceKey[key]
	return s, ok
}

// Pair is an unordered pair of distinct skills, First before Second in
// canonical order.
type Pair struct {
	First  Skill
	Second Skill
}

// Name is the pairwise roll column name, e.g. "CMD_DIP_roll".
func (p Pair) Name() string {
	return fmt.Sprintf("%s_%s_roll", p.First, p.Second)
}

// RankColumn is the rank column name, e.g. "CMD_DIP_roll_rank".
func (p Pair) RankColumn() string {
	return p.Name() + "_rank"
}

// NormColumn is the normalized column name, e.g. "CMD_DIP_roll_norm".
func (p Pair) NormColumn() string {
	return p.Name() + "_norm"
}

// String implements fmt.Stringer.
func (p Pair) String() string {
	return string(p.First) + "/" + string(p.Second)
}

var pairs = func() [PairCount]Pair {
	var out [PairCount]Pair
	n := 0
	for i := 0; i < Count; i++ {
		for j := i + 1; j < Count; j++ {
			out[n] = Pair{First: all[i], Second: all[j]}
			n++
		}
	}
	return out
}()

// Pairs returns the 15 unordered pairs in combinatorial order:
// CMD/DIP, CMD/ENG, ..., CMD/SEC, DIP/ENG, ..., SCI/SEC.
func Pairs() []Pair {
	out := make([]Pair, PairCount)
	copy(out, pairs[:])
	return out
}
