package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/fieldday/combine/internal/adapters/http/api"
	service "github.com/fieldday/combine/internal/app"
	"github.com/fieldday/combine/internal/domain/balancing"
	"github.com/fieldday/combine/internal/domain/model"
	"github.com/fieldday/combine/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

const drillsPayload = `{"drills":[
	{"key":"dash","label":"Dash","category":"speed","lower_is_better":true,"default_weight":60},
	{"key":"vertical","label":"Vertical","category":"power","default_weight":40}
]}`

const rosterPayload = `{"players":[
	{"id":"p1","name":"Alex","age_group":"U10","scores":{"dash":4.5,"vertical":30}},
	{"id":"p2","name":"Blake","age_group":"U10","scores":{"dash":5.5,"vertical":10}},
	{"id":"p3","name":"Casey","age_group":"U10","scores":{"dash":5.0,"vertical":20}},
	{"id":"p4","name":"Drew","age_group":"U12","scores":{"dash":4.8}}
]}`

// newTestServer wires the real service behind the HTTP mux, so handler
// tests exercise the full request path.
func newTestServer() (*httptest.Server, func()) {
	ctx := context.Background()
	svc := service.New()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 2).Register(ctx, mux)
	ts := httptest.NewServer(mux)
	return ts, func() {
		ts.Close()
		svc.Stop()
	}
}

func doRequest(ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		panic(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var buf strings.Builder
	dec := json.NewDecoder(resp.Body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err == nil {
		buf.Write(raw)
	}
	return resp, []byte(buf.String())
}

func loadFixtures(ts *httptest.Server) {
	if resp, _ := doRequest(ts, http.MethodPut, "/drills", drillsPayload); resp.StatusCode != http.StatusOK {
		panic("fixture drills rejected")
	}
	if resp, _ := doRequest(ts, http.MethodPut, "/roster", rosterPayload); resp.StatusCode != http.StatusOK {
		panic("fixture roster rejected")
	}
}

func TestRosterEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()

		Convey("When replacing the roster with valid players", func() {
			resp, body := doRequest(ts, http.MethodPut, "/roster", rosterPayload)

			Convey("Then the roster is accepted with a new version", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Status  string `json:"status"`
					Count   int    `json:"count"`
					Version uint64 `json:"version"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.Status, ShouldEqual, "replaced")
				So(out.Count, ShouldEqual, 4)
				So(out.Version, ShouldEqual, 1)
			})
		})

		Convey("When a player id is empty", func() {
			resp, _ := doRequest(ts, http.MethodPut, "/roster", `{"players":[{"id":" ","name":"X"}]}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When player ids collide", func() {
			resp, _ := doRequest(ts, http.MethodPut, "/roster",
				`{"players":[{"id":"p1","name":"A"},{"id":"p1","name":"B"}]}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a score arrives as JSON null", func() {
			payload := `{"players":[{"id":"p1","name":"Alex","scores":{"dash":null,"vertical":20}}]}`
			resp, _ := doRequest(ts, http.MethodPut, "/roster", payload)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the null is dropped rather than coerced to zero", func() {
				_, body := doRequest(ts, http.MethodGet, "/roster", "")
				var out struct {
					Players []model.Player `json:"players"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(len(out.Players), ShouldEqual, 1)
				_, hasDash := out.Players[0].Scores["dash"]
				So(hasDash, ShouldBeFalse)
				So(out.Players[0].Scores["vertical"], ShouldEqual, 20.0)
			})
		})

		Convey("When using an unsupported method", func() {
			resp, _ := doRequest(ts, http.MethodDelete, "/roster", "")

			Convey("Then the route reports not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestDrillsEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()

		Convey("When replacing the catalog with valid drills", func() {
			resp, _ := doRequest(ts, http.MethodPut, "/drills", drillsPayload)

			Convey("Then the catalog is accepted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When drill keys collide", func() {
			resp, _ := doRequest(ts, http.MethodPut, "/drills",
				`{"drills":[{"key":"dash","label":"A"},{"key":"dash","label":"B"}]}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a drill range is inverted", func() {
			resp, _ := doRequest(ts, http.MethodPut, "/drills",
				`{"drills":[{"key":"throwing","label":"T","min_value":10,"max_value":0}]}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRankingsEndpoint(t *testing.T) {
	Convey("Given a server loaded with fixtures", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()
		loadFixtures(ts)

		Convey("When ranking the U10 cohort", func() {
			resp, body := doRequest(ts, http.MethodPost, "/rankings", `{"age_group":"U10"}`)

			Convey("Then entries come back ranked best-first", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Entries []ranking.Entry `json:"entries"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(len(out.Entries), ShouldEqual, 3)
				So(out.Entries[0].Player.ID, ShouldEqual, "p1")
				So(out.Entries[0].Rank, ShouldEqual, 1)
				So(out.Entries[0].Percentile, ShouldEqual, 100)
			})
		})

		Convey("When the body is not JSON", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/rankings", "not json")

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When ranking by one drill", func() {
			resp, body := doRequest(ts, http.MethodGet, "/rankings/drill?age_group=U10&drill=dash", "")

			Convey("Then the fastest player ranks first", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Entries []ranking.DrillEntry `json:"entries"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.Entries[0].Player.ID, ShouldEqual, "p1")
				So(out.Entries[0].Value, ShouldEqual, 4.5)
			})
		})

		Convey("When the drill key is unknown", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/rankings/drill?drill=levitation", "")

			Convey("Then the endpoint reports not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the drill parameter is missing", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/rankings/drill", "")

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestTeamsEndpoint(t *testing.T) {
	Convey("Given a server loaded with fixtures", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()
		loadFixtures(ts)

		Convey("When forming teams with an explicit strategy and count", func() {
			resp, body := doRequest(ts, http.MethodPost, "/teams", `{"team_count":2,"strategy":"snake"}`)

			Convey("Then the partition covers the roster", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out balancing.Result
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(len(out.Teams), ShouldEqual, 2)
				So(out.Teams[0].Size()+out.Teams[1].Size(), ShouldEqual, 4)
			})
		})

		Convey("When team_count is omitted", func() {
			resp, body := doRequest(ts, http.MethodPost, "/teams", `{"strategy":"balanced"}`)

			Convey("Then the configured default applies", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out balancing.Result
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(len(out.Teams), ShouldEqual, 2)
			})
		})

		Convey("When the strategy is omitted", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/teams", `{"team_count":2}`)

			Convey("Then balanced is assumed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the strategy is unknown", func() {
			resp, body := doRequest(ts, http.MethodPost, "/teams", `{"team_count":2,"strategy":"round-robin"}`)

			Convey("Then the request is rejected with the strategy code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var out struct {
					Code string `json:"code"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.Code, ShouldEqual, "unknown_strategy")
			})
		})

		Convey("When the team count exceeds the maximum", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/teams", `{"team_count":99}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestSummaryAndBreakdownEndpoints(t *testing.T) {
	Convey("Given a server loaded with fixtures", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()
		loadFixtures(ts)

		Convey("When fetching the event summary", func() {
			resp, body := doRequest(ts, http.MethodGet, "/summary", "")

			Convey("Then it reports participants and per-drill aggregates", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					ParticipantCount int `json:"participant_count"`
					Drills           []struct {
						Key     string `json:"key"`
						Count   int    `json:"count"`
						Missing int    `json:"missing"`
					} `json:"drills"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.ParticipantCount, ShouldEqual, 4)
				So(len(out.Drills), ShouldEqual, 2)
				So(out.Drills[1].Key, ShouldEqual, "vertical")
				So(out.Drills[1].Missing, ShouldEqual, 1)
			})
		})

		Convey("When fetching a player's score breakdown", func() {
			resp, body := doRequest(ts, http.MethodPost, "/players/p1/breakdown", `{}`)

			Convey("Then contributions and the composite come back together", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					PlayerID       string  `json:"player_id"`
					CompositeScore float64 `json:"composite_score"`
					Contributions  []struct {
						DrillKey string  `json:"drill_key"`
						Weighted float64 `json:"weighted"`
					} `json:"contributions"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.PlayerID, ShouldEqual, "p1")
				So(len(out.Contributions), ShouldEqual, 2)
				var total float64
				for _, c := range out.Contributions {
					total += c.Weighted
				}
				So(out.CompositeScore, ShouldEqual, total)
			})
		})

		Convey("When the player id is unknown", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/players/ghost/breakdown", `{}`)

			Convey("Then the endpoint reports not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the breakdown path is malformed", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/players/p1/roster-card", `{}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a server loaded with fixtures", t, func() {
		ts, cleanup := newTestServer()
		defer cleanup()
		loadFixtures(ts)

		Convey("When fetching service stats", func() {
			resp, body := doRequest(ts, http.MethodGet, "/stats", "")

			Convey("Then the monitoring view reflects the store", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out map[string]any
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out["started"], ShouldEqual, true)
				So(out["rosterSize"], ShouldEqual, 4.0)
			})
		})

		Convey("When checking response headers", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/stats", "")

			Convey("Then every response carries a request id", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})
	})
}
