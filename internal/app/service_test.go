package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/architex/internal/adapters/repository"
	service "github.com/okian/architex/internal/app"
	"github.com/okian/architex/internal/domain/model"
	"github.com/okian/architex/internal/domain/recommend"
	"github.com/okian/architex/internal/domain/types"
	"github.com/okian/architex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// failingStore serves the catalog but fails favorites lookups.
type failingStore struct {
	*repository.MemoryStore
	err error
}

func (f *failingStore) Favorites(ctx context.Context, userID string) ([]model.Style, error) {
	return nil, f.err
}

func input(name, period string, traits ...string) types.StyleInput {
	return types.StyleInput{
		Name:            name,
		Period:          period,
		Description:     name + " architecture",
		Characteristics: traits,
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.DefaultLimit(), ShouldEqual, 3)
			So(svc.MaxLimit(), ShouldEqual, 50)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithRecommendationLimits(5, 20),
			service.WithRankerOptions(recommend.WithPeriodWeight(2)),
			service.WithLogger(logger.Named("test")),
		)

		Convey("Then the limits should be applied", func() {
			So(svc.DefaultLimit(), ShouldEqual, 5)
			So(svc.MaxLimit(), ShouldEqual, 20)
		})
	})

	Convey("Given inconsistent limits", t, func() {
		svc := service.New(service.WithRecommendationLimits(10, 5))

		Convey("Then the defaults are kept", func() {
			So(svc.DefaultLimit(), ShouldEqual, 3)
			So(svc.MaxLimit(), ShouldEqual, 50)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When used before starting", func() {
			_, err := svc.ListStyles(ctx)

			Convey("Then it reports not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it should be marked as started with an empty catalog", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["totalStyles"], ShouldEqual, 0)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Styles(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		created, err := svc.CreateStyle(ctx, "alice", input("Gothic", "12th-16th Century", "Pointed arches"))
		So(err, ShouldBeNil)

		Convey("Then the creator and timestamps are set", func() {
			So(created.ID, ShouldNotBeEmpty)
			So(created.CreatedBy, ShouldEqual, "alice")
			So(created.CreatedAt.IsZero(), ShouldBeFalse)
		})

		Convey("When creating without a user", func() {
			_, err := svc.CreateStyle(ctx, "", input("Baroque", "17th Century", "Curved forms"))
			So(errors.Is(err, service.ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("When creating an invalid style", func() {
			_, err := svc.CreateStyle(ctx, "alice", input("Baroque", "", "Curved forms"))
			So(errors.Is(err, model.ErrInvalidStyle), ShouldBeTrue)
		})

		Convey("When creating a duplicate name", func() {
			_, err := svc.CreateStyle(ctx, "bob", input("Gothic", "12th Century", "Arches"))
			So(errors.Is(err, repository.ErrDuplicateName), ShouldBeTrue)
		})

		Convey("When getting, listing and searching", func() {
			_, err := svc.CreateStyle(ctx, "alice", input("Art Deco", "1920s-1930s", "Zigzags"))
			So(err, ShouldBeNil)

			got, err := svc.GetStyle(ctx, created.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Gothic")

			list, err := svc.ListStyles(ctx)
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0].Name, ShouldEqual, "Art Deco")

			found, err := svc.SearchStyles(ctx, "ZIGZAG")
			So(err, ShouldBeNil)
			So(len(found), ShouldEqual, 1)
			So(found[0].Name, ShouldEqual, "Art Deco")

			_, err = svc.GetStyle(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When updating", func() {
			period := "12th-15th Century"
			updated, err := svc.UpdateStyle(ctx, "alice", created.ID, types.StylePatch{Period: &period})
			So(err, ShouldBeNil)
			So(updated.Period, ShouldEqual, "12th-15th Century")
			So(updated.Name, ShouldEqual, "Gothic")

			_, err = svc.UpdateStyle(ctx, "bob", created.ID, types.StylePatch{Period: &period})
			So(errors.Is(err, repository.ErrForbidden), ShouldBeTrue)

			empty := ""
			_, err = svc.UpdateStyle(ctx, "alice", created.ID, types.StylePatch{Name: &empty})
			So(errors.Is(err, model.ErrInvalidStyle), ShouldBeTrue)

			got, _ := svc.GetStyle(ctx, created.ID)
			So(got.Name, ShouldEqual, "Gothic")
		})

		Convey("When deleting", func() {
			So(errors.Is(svc.DeleteStyle(ctx, "bob", created.ID), repository.ErrForbidden), ShouldBeTrue)
			So(svc.DeleteStyle(ctx, "alice", created.ID), ShouldBeNil)

			_, err := svc.GetStyle(ctx, created.ID)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Favorites(t *testing.T) {
	Convey("Given a started service with one style", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		style, err := svc.CreateStyle(ctx, "alice", input("Victorian", "19th Century", "Ornate decoration"))
		So(err, ShouldBeNil)

		Convey("When toggling it twice", func() {
			first, err := svc.ToggleFavorite(ctx, "u1", style.ID)
			So(err, ShouldBeNil)
			favs, _ := svc.Favorites(ctx, "u1")
			second, err := svc.ToggleFavorite(ctx, "u1", style.ID)
			So(err, ShouldBeNil)

			Convey("Then it is added then removed", func() {
				So(first.Success, ShouldBeTrue)
				So(first.Action, ShouldEqual, "added")
				So(first.Favorites, ShouldResemble, []string{style.ID})
				So(len(favs), ShouldEqual, 1)
				So(second.Action, ShouldEqual, "removed")
				So(second.Favorites, ShouldNotBeNil)
				So(second.Favorites, ShouldBeEmpty)
			})
		})

		Convey("When toggling an unknown style", func() {
			_, err := svc.ToggleFavorite(ctx, "u1", "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When no user is given", func() {
			_, err := svc.Favorites(ctx, " ")
			So(errors.Is(err, service.ErrUnauthenticated), ShouldBeTrue)
		})
	})
}

func TestService_Recommendations(t *testing.T) {
	Convey("Given a catalog with a clear period preference", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		ids := map[string]string{}
		for _, in := range []types.StyleInput{
			input("Gothic", "12th-16th Century", "Pointed arches"),
			input("Victorian", "19th Century", "Ornate decoration", "Towers"),
			input("Romanticism", "19th Century", "Towers"),
			input("Rococo", "18th Century", "Ornate decoration"),
			input("Mystery", "sometime long ago", "Towers"),
		} {
			st, err := svc.CreateStyle(ctx, "alice", in)
			So(err, ShouldBeNil)
			ids[st.Name] = st.ID
		}

		Convey("When the user has no favorites", func() {
			recs, err := svc.Recommendations(ctx, "u1", 3, nil)

			Convey("Then nothing is recommended", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldNotBeNil)
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When the user likes Victorian", func() {
			_, err := svc.ToggleFavorite(ctx, "u1", ids["Victorian"])
			So(err, ShouldBeNil)

			recs, err := svc.Recommendations(ctx, "u1", 3, nil)

			Convey("Then same-century styles rank first and favorites are excluded", func() {
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
				So(recs[0].Name, ShouldEqual, "Romanticism")
				So(recs[0].Score, ShouldAlmostEqual, 3.5, 1e-9)
				So(recs[1].Name, ShouldEqual, "Rococo")
				So(recs[1].Score, ShouldAlmostEqual, 2.9, 1e-9)
				for _, r := range recs {
					So(r.ID, ShouldNotEqual, ids["Victorian"])
				}
			})

			Convey("And excluded ids are skipped", func() {
				recs, err := svc.Recommendations(ctx, "u1", 3, []string{ids["Romanticism"]})
				So(err, ShouldBeNil)
				So(recs[0].Name, ShouldEqual, "Rococo")
			})

			Convey("And a non-positive limit returns an empty list", func() {
				recs, err := svc.Recommendations(ctx, "u1", 0, nil)
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})

			Convey("And a replacement skips the current recommendations", func() {
				rep, err := svc.Replacement(ctx, "u1", []string{ids["Romanticism"], ids["Rococo"]})
				So(err, ShouldBeNil)
				So(rep.Name, ShouldEqual, "Gothic")
			})

			Convey("And a replacement with everything excluded reports none", func() {
				_, err := svc.Replacement(ctx, "u1", []string{ids["Romanticism"], ids["Rococo"], ids["Gothic"], ids["Mystery"]})
				So(errors.Is(err, service.ErrNoRecommendation), ShouldBeTrue)
			})
		})

		Convey("When no user is given", func() {
			_, err := svc.Recommendations(ctx, "", 3, nil)
			So(errors.Is(err, service.ErrUnauthenticated), ShouldBeTrue)
		})
	})

	Convey("Given a store whose favorites lookup fails", t, func() {
		ctx := context.Background()
		mem := repository.NewMemoryStore(ctx)
		defer mem.Close()
		boom := errors.New("favorites unavailable")
		svc := service.New(service.WithStore(&failingStore{MemoryStore: mem, err: boom}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When asking for recommendations", func() {
			_, err := svc.Recommendations(ctx, "u1", 3, nil)

			Convey("Then the failure propagates as a fetch error", func() {
				So(errors.Is(err, service.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When asking for a replacement", func() {
			_, err := svc.Replacement(ctx, "u1", nil)
			So(errors.Is(err, service.ErrFetch), ShouldBeTrue)
		})
	})
}
