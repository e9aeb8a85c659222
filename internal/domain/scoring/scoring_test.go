package scoring_test

import (
	"testing"

	"github.com/fieldday/combine/internal/domain/model"
	scoring "github.com/fieldday/combine/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	Convey("Given a cohort range for a timed drill", t, func() {
		r := model.Range{Min: 4.5, Max: 5.5}

		Convey("When the drill is lower-is-better", func() {
			Convey("Then the fastest time maps to 100", func() {
				So(scoring.Normalize(4.5, r, true), ShouldEqual, 100.0)
			})

			Convey("And the slowest time maps to 0", func() {
				So(scoring.Normalize(5.5, r, true), ShouldEqual, 0.0)
			})

			Convey("And the midpoint maps to 50", func() {
				So(scoring.Normalize(5.0, r, true), ShouldEqual, 50.0)
			})
		})

		Convey("When the drill is higher-is-better", func() {
			Convey("Then the scale runs the other way", func() {
				So(scoring.Normalize(4.5, r, false), ShouldEqual, 0.0)
				So(scoring.Normalize(5.5, r, false), ShouldEqual, 100.0)
			})
		})

		Convey("When the raw value falls outside the range", func() {
			Convey("Then the result is propagated unclamped", func() {
				So(scoring.Normalize(6.0, r, true), ShouldBeLessThan, 0.0)
				So(scoring.Normalize(4.0, r, true), ShouldBeGreaterThan, 100.0)
			})
		})
	})

	Convey("Given a degenerate range where every value is tied", t, func() {
		r := model.Range{Min: 7.2, Max: 7.2}

		Convey("Then every raw value maps to the neutral midpoint", func() {
			So(scoring.Normalize(7.2, r, true), ShouldEqual, scoring.NeutralMidpoint)
			So(scoring.Normalize(99.0, r, false), ShouldEqual, scoring.NeutralMidpoint)
		})
	})
}

func TestNormalizeClamped(t *testing.T) {
	Convey("Given a drill with an explicit 0-10 range", t, func() {
		r := model.Range{Min: 0, Max: 10}

		Convey("Then in-range values normalize as usual", func() {
			So(scoring.NormalizeClamped(5, r, false), ShouldEqual, 50.0)
		})

		Convey("And out-of-range values are clamped before normalizing", func() {
			So(scoring.NormalizeClamped(15, r, false), ShouldEqual, 100.0)
			So(scoring.NormalizeClamped(-3, r, false), ShouldEqual, 0.0)
		})
	})
}

func TestCalculator_Composite(t *testing.T) {
	Convey("Given a three-player cohort measured on a 40-yard dash", t, func() {
		drills := []model.Drill{
			{Key: "forty_yard_dash", Label: "40-Yard Dash", LowerIsBetter: true, DefaultWeight: 100},
		}
		stats := model.CohortStats{"forty_yard_dash": {Min: 4.5, Max: 5.5}}
		calc := scoring.NewCalculator()

		Convey("When computing composites with the full weight on the dash", func() {
			fast := model.Player{ID: "c", Name: "Casey", Scores: map[string]float64{"forty_yard_dash": 4.5}}
			mid := model.Player{ID: "a", Name: "Alex", Scores: map[string]float64{"forty_yard_dash": 5.0}}
			slow := model.Player{ID: "b", Name: "Blake", Scores: map[string]float64{"forty_yard_dash": 5.5}}

			Convey("Then scores land on the inverted scale", func() {
				So(calc.Composite(fast, stats, nil, drills), ShouldEqual, 100.0)
				So(calc.Composite(mid, stats, nil, drills), ShouldEqual, 50.0)
				So(calc.Composite(slow, stats, nil, drills), ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given two drills with partial weights", t, func() {
		drills := []model.Drill{
			{Key: "dash", LowerIsBetter: true, DefaultWeight: 60},
			{Key: "vertical", DefaultWeight: 40},
		}
		stats := model.CohortStats{
			"dash":     {Min: 4.0, Max: 6.0},
			"vertical": {Min: 10.0, Max: 30.0},
		}
		calc := scoring.NewCalculator()

		Convey("When a player tops both drills", func() {
			p := model.Player{ID: "p1", Scores: map[string]float64{"dash": 4.0, "vertical": 30.0}}

			Convey("Then the composite is the weighted sum, not an average", func() {
				So(calc.Composite(p, stats, nil, drills), ShouldEqual, 100.0)
			})
		})

		Convey("When a player is missing one measurement", func() {
			p := model.Player{ID: "p2", Scores: map[string]float64{"vertical": 30.0}}

			Convey("Then the missing drill contributes nothing instead of zeroing out", func() {
				So(calc.Composite(p, stats, nil, drills), ShouldEqual, 40.0)
			})
		})

		Convey("When weights sum above 100", func() {
			heavy := model.WeightMap{"dash": 100, "vertical": 100}
			p := model.Player{ID: "p3", Scores: map[string]float64{"dash": 4.0, "vertical": 30.0}}

			Convey("Then the composite exceeds 100 without rescaling", func() {
				So(calc.Composite(p, stats, heavy, drills), ShouldEqual, 200.0)
			})
		})
	})

	Convey("Given contributions whose sum is order-sensitive at the last ulp", t, func() {
		// 0.1 + 0.2 + 0.3 != 0.3 + 0.2 + 0.1 in IEEE 754 double precision.
		drills := []model.Drill{
			{Key: "agility", DefaultWeight: 100, MinValue: floatPtr(0), MaxValue: floatPtr(100)},
			{Key: "balance", DefaultWeight: 100, MinValue: floatPtr(0), MaxValue: floatPtr(100)},
			{Key: "control", DefaultWeight: 100, MinValue: floatPtr(0), MaxValue: floatPtr(100)},
		}
		p := model.Player{ID: "p1", Scores: map[string]float64{
			"agility": 0.1, "balance": 0.2, "control": 0.3,
		}}
		calc := scoring.NewCalculator()

		Convey("When the catalog order is permuted", func() {
			forward := calc.Composite(p, model.CohortStats{}, nil, drills)
			reversed := calc.Composite(p, model.CohortStats{}, nil,
				[]model.Drill{drills[2], drills[1], drills[0]})
			rotated := calc.Composite(p, model.CohortStats{}, nil,
				[]model.Drill{drills[1], drills[2], drills[0]})

			Convey("Then the composite is bit-for-bit identical", func() {
				So(reversed, ShouldEqual, forward)
				So(rotated, ShouldEqual, forward)
			})

			Convey("And Total over the breakdown matches it exactly", func() {
				contribs := calc.Breakdown(p, model.CohortStats{}, nil,
					[]model.Drill{drills[2], drills[0], drills[1]})
				So(scoring.Total(contribs), ShouldEqual, forward)
			})
		})
	})
}

func TestCalculator_Breakdown(t *testing.T) {
	Convey("Given a catalog mixing cohort-normalized and range-defined drills", t, func() {
		drills := []model.Drill{
			{Key: "dash", Label: "Dash", LowerIsBetter: true, DefaultWeight: 50},
			{Key: "throwing", Label: "Throwing", DefaultWeight: 50, MinValue: floatPtr(0), MaxValue: floatPtr(10)},
		}
		stats := model.CohortStats{"dash": {Min: 4.0, Max: 6.0}}
		calc := scoring.NewCalculator()

		p := model.Player{ID: "p1", Scores: map[string]float64{"dash": 5.0, "throwing": 12.0}}

		Convey("When computing a breakdown with default clamping", func() {
			contribs := calc.Breakdown(p, stats, nil, drills)

			Convey("Then range-defined drills clamp out-of-range entries", func() {
				So(len(contribs), ShouldEqual, 2)
				So(contribs[1].DrillKey, ShouldEqual, "throwing")
				So(contribs[1].Normalized, ShouldEqual, 100.0)
			})

			Convey("And the weighted parts sum to the composite", func() {
				total := 0.0
				for _, contrib := range contribs {
					total += contrib.Weighted
				}
				So(total, ShouldEqual, calc.Composite(p, stats, nil, drills))
			})
		})

		Convey("When clamping is disabled", func() {
			raw := scoring.NewCalculator(scoring.WithCustomRangeClamping(false))
			contribs := raw.Breakdown(p, stats, nil, drills)

			Convey("Then the out-of-range entry overshoots the scale", func() {
				So(contribs[1].Normalized, ShouldEqual, 120.0)
			})
		})

		Convey("When no cohort member recorded a drill", func() {
			empty := model.CohortStats{}
			contribs := calc.Breakdown(p, empty, nil, drills)

			Convey("Then the drill is skipped entirely", func() {
				So(len(contribs), ShouldEqual, 1)
				So(contribs[0].DrillKey, ShouldEqual, "throwing")
			})
		})
	})

	Convey("Given a weight map referencing an unknown drill key", t, func() {
		drills := []model.Drill{{Key: "dash", LowerIsBetter: true}}
		stats := model.CohortStats{"dash": {Min: 4.0, Max: 6.0}}

		var reported []string
		calc := scoring.NewCalculator(scoring.WithUnknownKeyFunc(func(key string) {
			reported = append(reported, key)
		}))

		Convey("When computing a breakdown", func() {
			p := model.Player{ID: "p1", Scores: map[string]float64{"dash": 5.0}}
			calc.Breakdown(p, stats, model.WeightMap{"dash": 50, "bogus": 50}, drills)

			Convey("Then the unknown key is reported without aborting", func() {
				So(reported, ShouldResemble, []string{"bogus"})
			})
		})
	})
}

func TestResolveWeight(t *testing.T) {
	Convey("Given a drill with a catalog default weight", t, func() {
		drill := model.Drill{Key: "dash", DefaultWeight: 25}

		Convey("When the weight map is nil", func() {
			Convey("Then the catalog default applies", func() {
				So(scoring.ResolveWeight(nil, drill), ShouldEqual, 25.0)
			})
		})

		Convey("When the weight map is present but omits the drill", func() {
			Convey("Then the drill weighs zero", func() {
				So(scoring.ResolveWeight(model.WeightMap{"other": 50}, drill), ShouldEqual, 0.0)
			})
		})

		Convey("When the weight map overrides the drill", func() {
			Convey("Then the override wins", func() {
				So(scoring.ResolveWeight(model.WeightMap{"dash": 80}, drill), ShouldEqual, 80.0)
			})
		})
	})
}
