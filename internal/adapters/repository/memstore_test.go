package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/fieldday/combine/internal/adapters/repository"
	"github.com/fieldday/combine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty roster store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)

		Convey("Then it starts at version zero with no players", func() {
			So(store.Version(ctx), ShouldEqual, 0)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("When replacing the roster", func() {
			players := []model.Player{
				{ID: "p1", Name: "Alex", AgeGroup: "U10"},
				{ID: "p2", Name: "Blake", AgeGroup: "U12"},
				{ID: "p3", Name: "Casey", AgeGroup: "U10"},
			}
			v := store.ReplaceRoster(ctx, players)

			Convey("Then the version bumps and the roster is visible", func() {
				So(v, ShouldEqual, 1)
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("And players resolve by id", func() {
				p, err := store.Player(ctx, "p2")
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Blake")
			})

			Convey("And an unknown id returns the sentinel error", func() {
				_, err := store.Player(ctx, "ghost")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And cohorts preserve roster order", func() {
				u10 := store.Cohort(ctx, "U10")
				So(len(u10), ShouldEqual, 2)
				So(u10[0].ID, ShouldEqual, "p1")
				So(u10[1].ID, ShouldEqual, "p3")
			})

			Convey("And age groups come back sorted", func() {
				So(store.AgeGroups(ctx), ShouldResemble, []string{"U10", "U12"})
			})

			Convey("And replacing again bumps the version again", func() {
				v2 := store.ReplaceRoster(ctx, players[:1])
				So(v2, ShouldEqual, 2)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When replacing the drill catalog", func() {
			v := store.ReplaceDrills(ctx, []model.Drill{{Key: "dash"}})

			Convey("Then the catalog mutation also bumps the version", func() {
				So(v, ShouldEqual, 1)
				snap := store.Snapshot(ctx)
				So(len(snap.Drills), ShouldEqual, 1)
				So(snap.Version, ShouldEqual, 1)
			})
		})

		Convey("When taking a snapshot", func() {
			store.ReplaceRoster(ctx, []model.Player{{ID: "p1", Name: "Alex"}})
			snap := store.Snapshot(ctx)

			Convey("Then later mutations do not leak into the snapshot", func() {
				store.ReplaceRoster(ctx, []model.Player{
					{ID: "p1", Name: "Alex"},
					{ID: "p2", Name: "Blake"},
				})
				So(len(snap.Players), ShouldEqual, 1)
				So(snap.Version, ShouldEqual, 1)
				So(store.Version(ctx), ShouldEqual, 2)
			})
		})

		Convey("When readers and writers run concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					store.ReplaceRoster(ctx, []model.Player{{ID: "p1"}})
				}()
				go func() {
					defer wg.Done()
					_ = store.Snapshot(ctx)
					_ = store.Count(ctx)
				}()
			}
			wg.Wait()

			Convey("Then the store stays consistent", func() {
				So(store.Count(ctx), ShouldEqual, 1)
				So(store.Version(ctx), ShouldEqual, 8)
			})
		})
	})
}
