package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMovie(t *testing.T) {
	Convey("Given a movie", t, func() {
		m := Movie{MovieID: 19995, Title: "Avatar"}

		Convey("Then its fields should round-trip", func() {
			So(m.MovieID, ShouldEqual, 19995)
			So(m.Title, ShouldEqual, "Avatar")
		})
	})
}

func TestNeighbor(t *testing.T) {
	Convey("Given a neighbor", t, func() {
		n := Neighbor{
			Index: 3,
			Movie: Movie{MovieID: 285, Title: "Pirates of the Caribbean: At World's End"},
			Score: 0.42,
		}

		Convey("Then it should carry the catalog position and score", func() {
			So(n.Index, ShouldEqual, 3)
			So(n.Score, ShouldAlmostEqual, 0.42)
			So(n.Movie.Title, ShouldNotBeEmpty)
		})
	})
}
