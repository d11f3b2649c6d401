package model_test

import (
	"testing"

	json "github.com/goccy/go-json"

	model "github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/skill"
	"github.com/smartystreets/goconvey/convey"
)

func TestCrewDecoding(t *testing.T) {
	convey.Convey("Given a crew JSON document", t, func() {
		doc := `[
			{"name": "Kirk", "symbol": "kirk_crew", "max_rarity": 5,
			 "base_skills": {
				"command_skill": {"core": 1100, "range_min": 200, "range_max": 500},
				"security_skill": {"range_min": 100, "range_max": 300}
			 }},
			{"name": "Ensign"}
		]`

		convey.Convey("When decoding it", func() {
			var crew []model.Crew
			err := json.Unmarshal([]byte(doc), &crew)

			convey.Convey("Then known fields are populated and extras ignored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(crew, convey.ShouldHaveLength, 2)
				convey.So(crew[0].Name, convey.ShouldEqual, "Kirk")
				convey.So(crew[0].BaseSkills, convey.ShouldHaveLength, 2)

				cmd := crew[0].BaseSkills["command_skill"]
				convey.So(cmd.RangeMin, convey.ShouldEqual, 200)
				convey.So(cmd.RangeMax, convey.ShouldEqual, 500)
				convey.So(*cmd.Core, convey.ShouldEqual, 1100)

				convey.So(crew[0].BaseSkills["security_skill"].Core, convey.ShouldBeNil)
				convey.So(crew[1].BaseSkills, convey.ShouldBeNil)
			})
		})
	})
}

func TestRowAccessors(t *testing.T) {
	convey.Convey("Given a row with one skill", t, func() {
		var row model.Row
		row.Name = "Spock"
		row.Skills[skill.Science.Index()] = &model.SkillValues{RangeMin: 10, RangeMax: 20, Roll: 15}

		convey.Convey("Then present skills report their values", func() {
			v, ok := row.Skill(skill.Science)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v.Roll, convey.ShouldEqual, 15)
			convey.So(row.Roll(skill.Science), convey.ShouldEqual, 15)
		})

		convey.Convey("Then absent skills roll zero", func() {
			_, ok := row.Skill(skill.Command)
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(row.Roll(skill.Command), convey.ShouldEqual, 0)
			convey.So(row.Roll(skill.Skill("XYZ")), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a nil table", t, func() {
		var tbl *model.Table
		convey.So(tbl.Len(), convey.ShouldEqual, 0)
	})
}
