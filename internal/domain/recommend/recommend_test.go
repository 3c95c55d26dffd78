package recommend_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/reelrank/reelrank/internal/adapters/repository"
	"github.com/reelrank/reelrank/internal/domain/model"
	"github.com/reelrank/reelrank/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

func smallStore(ctx context.Context) repository.Store {
	movies := []model.Movie{
		{MovieID: 1, Title: "A"},
		{MovieID: 2, Title: "B"},
		{MovieID: 3, Title: "C"},
		{MovieID: 4, Title: "D"},
	}
	matrix := []float64{
		1.0, 0.9, 0.2, 0.5,
		0.9, 1.0, 0.3, 0.4,
		0.2, 0.3, 1.0, 0.1,
		0.5, 0.4, 0.1, 1.0,
	}
	store, err := repository.NewMatrixStore(ctx, movies, matrix)
	if err != nil {
		panic(err)
	}
	return store
}

// largeStore builds a catalog of size n where movie i's similarity to the
// query row is a known, partially tied sequence.
func largeStore(ctx context.Context, n int) repository.Store {
	movies := make([]model.Movie, n)
	matrix := make([]float64, n*n)
	for i := 0; i < n; i++ {
		movies[i] = model.Movie{MovieID: int64(i + 100), Title: fmt.Sprintf("Movie %03d", i)}
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				matrix[i*n+j] = 1.0
			case (i+j)%5 == 0:
				matrix[i*n+j] = 0.5 // deliberate ties
			default:
				matrix[i*n+j] = 1.0 / float64(1+i+j)
			}
		}
	}
	store, err := repository.NewMatrixStore(ctx, movies, matrix)
	if err != nil {
		panic(err)
	}
	return store
}

func titlesOf(neighbors []model.Neighbor) []string {
	out := make([]string, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Movie.Title
	}
	return out
}

func TestRecommendSmallCatalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a four movie catalog", t, func() {
		r := recommend.New(smallStore(ctx))

		Convey("When recommending for A", func() {
			neighbors, err := r.Recommend(ctx, "A")

			Convey("Then all other movies are returned in descending score order", func() {
				So(err, ShouldBeNil)
				So(titlesOf(neighbors), ShouldResemble, []string{"B", "D", "C"})
			})

			Convey("And the queried movie is excluded", func() {
				for _, n := range neighbors {
					So(n.Movie.Title, ShouldNotEqual, "A")
				}
			})
		})

		Convey("When recommending for an unknown title", func() {
			_, err := r.Recommend(ctx, "Zzz")

			Convey("Then it should fail with not found", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "title not found")
			})
		})
	})
}

func TestRecommendFullCatalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fifty movie catalog", t, func() {
		store := largeStore(ctx, 50)
		r := recommend.New(store)

		Convey("When recommending for every title", func() {
			for _, title := range store.Titles(ctx) {
				neighbors, err := r.Recommend(ctx, title)
				So(err, ShouldBeNil)

				// Exactly 12 results, none of which is the query itself.
				So(len(neighbors), ShouldEqual, 12)
				for _, n := range neighbors {
					So(n.Movie.Title, ShouldNotEqual, title)
				}

				// Scores are non-increasing.
				for i := 1; i < len(neighbors); i++ {
					So(neighbors[i].Score, ShouldBeLessThanOrEqualTo, neighbors[i-1].Score)
				}
			}
		})
	})
}

func TestRecommendStability(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog with tied scores", t, func() {
		r := recommend.New(largeStore(ctx, 30))

		Convey("When recommending twice for the same title", func() {
			first, err1 := r.Recommend(ctx, "Movie 000")
			second, err2 := r.Recommend(ctx, "Movie 000")

			Convey("Then the result is deterministic", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})

			Convey("And tied scores preserve catalog order", func() {
				So(err1, ShouldBeNil)
				for i := 1; i < len(first); i++ {
					if first[i].Score == first[i-1].Score {
						So(first[i].Index, ShouldBeGreaterThan, first[i-1].Index)
					}
				}
			})
		})
	})
}

func TestRecommendResultCountOption(t *testing.T) {
	ctx := context.Background()

	Convey("Given a recommender with a custom result count", t, func() {
		r := recommend.New(largeStore(ctx, 30), recommend.WithResultCount(5))

		Convey("When recommending", func() {
			neighbors, err := r.Recommend(ctx, "Movie 010")

			Convey("Then the result is capped at the configured count", func() {
				So(err, ShouldBeNil)
				So(len(neighbors), ShouldEqual, 5)
				So(r.ResultCount(), ShouldEqual, 5)
			})
		})
	})
}
