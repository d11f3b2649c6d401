package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/gauntlet/internal/adapters/report"
	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/skill"
	. "github.com/smartystreets/goconvey/convey"
)

// rankedTable builds a table whose rows are deliberately out of rank order.
func rankedTable() *model.Table {
	tbl := &model.Table{Pairs: skill.Pairs()}
	add := func(name string, rank int, norm float64) {
		var r model.Row
		r.Name = name
		r.GauntletRank = rank
		r.GauntletScoreNorm = norm
		for p := range r.PairRanks {
			r.PairRanks[p] = rank + p
		}
		tbl.Rows = append(tbl.Rows, r)
	}
	add("Data", 3, 80.5)
	add("Picard", 1, 100)
	add("Riker", 2, 90.25)
	add("Worf", 2, 90.25)
	return tbl
}

func TestColumns(t *testing.T) {
	cols := report.Columns(rankedTable())
	if len(cols) != 18 {
		t.Fatalf("got %d columns, want 18", len(cols))
	}
	want := []string{"name", "gauntlet_score_norm", "gauntlet_rank", "CMD_DIP_roll_rank"}
	if diff := cmp.Diff(want, cols[:4]); diff != "" {
		t.Errorf("leading columns mismatch (-want +got):\n%s", diff)
	}
	if cols[17] != "SCI_SEC_roll_rank" {
		t.Errorf("last column = %q", cols[17])
	}
}

func TestSelect(t *testing.T) {
	Convey("Given a table out of rank order", t, func() {
		tbl := rankedTable()

		Convey("When selecting all rows", func() {
			entries := report.Select(tbl, tbl.Len())

			Convey("Then rows are sorted by rank with ties in table order", func() {
				var names []string
				for _, e := range entries {
					names = append(names, e.Name)
				}
				So(names, ShouldResemble, []string{"Picard", "Riker", "Worf", "Data"})
				So(entries[0].PairRanks, ShouldHaveLength, skill.PairCount)
				So(entries[0].PairRanks[14], ShouldEqual, 15)
			})
		})

		Convey("When selecting fewer rows than available", func() {
			So(report.Select(tbl, 2), ShouldHaveLength, 2)
		})

		Convey("When selecting more rows than available", func() {
			So(report.Select(tbl, 50), ShouldHaveLength, 4)
		})

		Convey("When selecting zero or a negative count", func() {
			So(report.Select(tbl, 0), ShouldBeEmpty)
			So(report.Select(tbl, -3), ShouldBeEmpty)
		})

		Convey("When the table is empty", func() {
			So(report.Select(&model.Table{Pairs: skill.Pairs()}, 10), ShouldBeEmpty)
		})
	})
}

func TestReportCSV(t *testing.T) {
	Convey("Given a reporter writing to a file", t, func() {
		path := filepath.Join(t.TempDir(), "top_crew.csv")
		r := report.New(report.WithPath(path), report.WithTopN(3))

		Convey("When reporting", func() {
			n, err := r.Report(context.Background(), rankedTable())

			Convey("Then the CSV holds the header and the top rows", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)

				f, openErr := os.Open(path)
				So(openErr, ShouldBeNil)
				defer f.Close()
				records, readErr := csv.NewReader(f).ReadAll()
				So(readErr, ShouldBeNil)
				So(records, ShouldHaveLength, 4)
				So(records[0][:3], ShouldResemble, []string{"name", "gauntlet_score_norm", "gauntlet_rank"})
				So(records[1][:4], ShouldResemble, []string{"Picard", "100.0", "1", "1"})
				So(records[2][:3], ShouldResemble, []string{"Riker", "90.25", "2"})
				So(records[3][0], ShouldEqual, "Worf")
			})
		})

		Convey("When the row cap is zero", func() {
			n, err := report.New(report.WithPath(path), report.WithTopN(0)).Report(context.Background(), rankedTable())

			Convey("Then only the header is written", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				f, openErr := os.Open(path)
				So(openErr, ShouldBeNil)
				defer f.Close()
				records, readErr := csv.NewReader(f).ReadAll()
				So(readErr, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0][0], ShouldEqual, "name")
			})
		})

		Convey("When the destination directory does not exist", func() {
			bad := report.New(report.WithPath(filepath.Join(t.TempDir(), "missing", "out.csv")))
			_, err := bad.Report(context.Background(), rankedTable())

			Convey("Then a write error is returned", func() {
				So(errors.Is(err, report.ErrWrite), ShouldBeTrue)
			})
		})
	})
}

func TestReportStdout(t *testing.T) {
	Convey("Given a reporter without a path", t, func() {
		var buf bytes.Buffer
		r := report.New(report.WithPath(""), report.WithStdout(&buf), report.WithTopN(2))

		Convey("When reporting", func() {
			n, err := r.Report(context.Background(), rankedTable())

			Convey("Then a text table is rendered", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				out := buf.String()
				So(out, ShouldContainSubstring, "gauntlet_score_norm")
				So(out, ShouldContainSubstring, "SCI_SEC_roll_rank")
				So(out, ShouldContainSubstring, "Picard")
				So(out, ShouldContainSubstring, "100.000000")
				So(out, ShouldNotContainSubstring, "Worf")
			})
		})
	})
}

func TestWriteCSVError(t *testing.T) {
	err := report.WriteCSV(failingWriter{}, []string{"name"}, nil)
	if !errors.Is(err, report.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("cause not preserved: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
