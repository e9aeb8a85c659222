package rostersim

import (
	"context"
	"testing"

	"github.com/fieldday/combine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateRoster(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a simulation config with a fixed seed", t, func() {
		ctx := context.Background()
		config := &Config{
			NumPlayers: 50,
			AgeGroups:  []string{"U10", "U12"},
			Seed:       7,
			MissingPct: 20,
		}

		Convey("When generating the roster twice", func() {
			first := generateRoster(ctx, config, &Stats{})
			second := generateRoster(ctx, config, &Stats{})

			Convey("Then the rosters are identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When generating with a different seed", func() {
			first := generateRoster(ctx, config, &Stats{})
			other := &Config{NumPlayers: 50, AgeGroups: config.AgeGroups, Seed: 8, MissingPct: 20}
			second := generateRoster(ctx, other, &Stats{})

			Convey("Then the rosters differ", func() {
				So(second, ShouldNotResemble, first)
			})
		})

		Convey("When inspecting the generated players", func() {
			stats := &Stats{}
			players := generateRoster(ctx, config, stats)

			Convey("Then ids are unique and age groups rotate", func() {
				So(len(players), ShouldEqual, 50)
				So(stats.PlayersGenerated, ShouldEqual, 50)
				seen := make(map[string]struct{})
				for _, p := range players {
					_, dup := seen[p.ID]
					So(dup, ShouldBeFalse)
					seen[p.ID] = struct{}{}
				}
				So(players[0].AgeGroup, ShouldEqual, "U10")
				So(players[1].AgeGroup, ShouldEqual, "U12")
				So(players[2].AgeGroup, ShouldEqual, "U10")
			})

			Convey("And raw values stay inside the generator bands", func() {
				for _, p := range players {
					if v, ok := p.Scores["forty_yard_dash"]; ok {
						So(v, ShouldBeBetweenOrEqual, dashMin, dashMin+dashRange)
					}
					if v, ok := p.Scores["throwing"]; ok {
						So(v, ShouldBeBetweenOrEqual, ratedDrillMin, ratedDrillMax)
					}
				}
			})
		})
	})
}
