package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reelrank/reelrank/internal/adapters/http/api"
	"github.com/reelrank/reelrank/internal/adapters/repository"
	"github.com/reelrank/reelrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubDeps serves a fixed three-movie catalog.
type stubDeps struct{}

func (stubDeps) Titles(ctx context.Context) []string {
	return []string{"Arrival", "Blade Runner", "Coherence"}
}

func (stubDeps) Recommend(ctx context.Context, title string) ([]api.Recommendation, error) {
	if title != "Arrival" {
		return nil, fmt.Errorf("similarity lookup for %q: %w", title, repository.ErrNotFound)
	}
	return []api.Recommendation{
		{Rank: 1, Title: "Blade Runner", MovieID: 2, Score: 0.9, PosterURL: "https://image.test/2.jpg"},
		{Rank: 2, Title: "Coherence", MovieID: 3, Score: 0.2, PosterURL: "https://image.test/3.jpg"},
	}, nil
}

// stubStats satisfies api.StatsProvider.
type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "catalogSize": 3}
}

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	srv := api.NewServer(stubDeps{}, stubStats{})
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestGetTitles(t *testing.T) {
	Convey("Given a registered API", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When GET /api/v1/titles is called", func() {
			resp, err := http.Get(ts.URL + "/api/v1/titles")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it returns the catalog titles in order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body struct {
					Titles []string `json:"titles"`
					Count  int      `json:"count"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Titles, ShouldResemble, []string{"Arrival", "Blade Runner", "Coherence"})
				So(body.Count, ShouldEqual, 3)
			})
		})

		Convey("When POST /api/v1/titles is called", func() {
			resp, err := http.Post(ts.URL+"/api/v1/titles", "application/json", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestGetRecommendations(t *testing.T) {
	Convey("Given a registered API", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When requesting recommendations for a known title", func() {
			resp, err := http.Get(ts.URL + "/api/v1/recommendations?title=Arrival")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the ranked results come back with posters", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body struct {
					Title   string               `json:"title"`
					Results []api.Recommendation `json:"results"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Title, ShouldEqual, "Arrival")
				So(len(body.Results), ShouldEqual, 2)
				So(body.Results[0].Rank, ShouldEqual, 1)
				So(body.Results[0].Title, ShouldEqual, "Blade Runner")
				So(body.Results[0].PosterURL, ShouldEqual, "https://image.test/2.jpg")
			})
		})

		Convey("When requesting recommendations for an unknown title", func() {
			resp, err := http.Get(ts.URL + "/api/v1/recommendations?title=Nope")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it returns 404 with an error body", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

				var body struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Code, ShouldEqual, "not_found")
				So(body.Message, ShouldContainSubstring, "not found")
			})
		})

		Convey("When the title parameter is missing", func() {
			resp, err := http.Get(ts.URL + "/api/v1/recommendations")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it returns 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the title parameter is blank", func() {
			resp, err := http.Get(ts.URL + "/api/v1/recommendations?title=%20%20")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it returns 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given a registered API", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When GET /stats is called", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then service stats come back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When GET /healthz is called", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the Prometheus exposition is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When GET /dashboard is called", func() {
			resp, err := http.Get(ts.URL + "/dashboard")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the dashboard page is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/html")
			})
		})
	})
}
