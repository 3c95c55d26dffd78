package artifact_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelrank/reelrank/internal/adapters/artifact"
	"github.com/reelrank/reelrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeTestArtifacts(t *testing.T, catalogJSON string, scores []float64, n int) (string, string) {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	matrixPath := filepath.Join(dir, "similarity.simm")
	f, err := os.Create(matrixPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := artifact.WriteMatrix(f, scores, n); err != nil {
		t.Fatal(err)
	}

	return catalogPath, matrixPath
}

const goodCatalog = `[
  {"movie_id": 1, "title": "A"},
  {"movie_id": 2, "title": "B"},
  {"movie_id": 3, "title": "C"}
]`

func goodScores() []float64 {
	return []float64{
		1.0, 0.5, 0.2,
		0.5, 1.0, 0.7,
		0.2, 0.7, 1.0,
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given consistent artifacts on disk", t, func() {
		catalogPath, matrixPath := writeTestArtifacts(t, goodCatalog, goodScores(), 3)

		Convey("When loading", func() {
			movies, scores, err := artifact.Load(ctx, catalogPath, matrixPath)

			Convey("Then both artifacts round-trip", func() {
				So(err, ShouldBeNil)
				So(len(movies), ShouldEqual, 3)
				So(movies[0].Title, ShouldEqual, "A")
				So(movies[2].MovieID, ShouldEqual, 3)
				So(scores, ShouldResemble, goodScores())
			})
		})
	})

	Convey("Given a missing catalog file", t, func() {
		_, matrixPath := writeTestArtifacts(t, goodCatalog, goodScores(), 3)
		_, _, err := artifact.Load(ctx, filepath.Join(t.TempDir(), "missing.json"), matrixPath)

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an empty catalog", t, func() {
		catalogPath, matrixPath := writeTestArtifacts(t, `[]`, goodScores(), 3)
		_, _, err := artifact.Load(ctx, catalogPath, matrixPath)

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "catalog is empty")
		})
	})

	Convey("Given a matrix whose dimension disagrees with the catalog", t, func() {
		catalogPath, _ := writeTestArtifacts(t, goodCatalog, goodScores(), 3)
		_, matrixPath := writeTestArtifacts(t, goodCatalog, []float64{1.0, 0.5, 0.5, 1.0}, 2)
		_, _, err := artifact.Load(ctx, catalogPath, matrixPath)

		Convey("Then loading fails with a dimension error", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "dimension")
		})
	})

	Convey("Given a matrix whose diagonal is not maximal", t, func() {
		bad := goodScores()
		bad[1] = 1.5 // (0,1) above diagonal of row 0
		catalogPath, matrixPath := writeTestArtifacts(t, goodCatalog, bad, 3)
		_, _, err := artifact.Load(ctx, catalogPath, matrixPath)

		Convey("Then loading fails with a diagonal error", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "diagonal")
		})
	})
}

func TestLoadMatrixCorruption(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file that is not a similarity matrix", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "similarity.simm")
		So(os.WriteFile(path, []byte("<html>not a matrix</html>"), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			_, _, err := artifact.LoadMatrix(ctx, path)

			Convey("Then it fails with a bad magic error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "bad magic")
			})
		})
	})

	Convey("Given a truncated matrix file", t, func() {
		dir := t.TempDir()
		full := filepath.Join(dir, "full.simm")
		f, err := os.Create(full)
		So(err, ShouldBeNil)
		So(artifact.WriteMatrix(f, goodScores(), 3), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		data, err := os.ReadFile(full)
		So(err, ShouldBeNil)
		truncated := filepath.Join(dir, "truncated.simm")
		So(os.WriteFile(truncated, data[:len(data)-4], 0o600), ShouldBeNil)

		Convey("When loading", func() {
			_, _, err := artifact.LoadMatrix(ctx, truncated)

			Convey("Then it fails with a truncation error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "truncated")
			})
		})
	})
}
