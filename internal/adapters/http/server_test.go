package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apihttp "github.com/codenameuriel/exo-intel/internal/adapters/http"
	"github.com/codenameuriel/exo-intel/pkg/adapters/memory"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/observability"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/codenameuriel/exo-intel/pkg/queue"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	users   *memory.Users
	history *memory.History
	broker  *memory.Broker
	user    domain.User
	key     string
}

func newFixture(t *testing.T, opts ...apihttp.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	catalog := memory.NewCatalog()
	require.NoError(t, ports.SeedCatalog(ctx, catalog))
	users := memory.NewUsers()
	user, err := users.CreateUser(ctx, "carl")
	require.NoError(t, err)
	key, err := users.IssueAPIKey(ctx, user.ID, "default")
	require.NoError(t, err)

	f := &fixture{
		users:   users,
		history: memory.NewHistory(),
		broker:  memory.NewBroker(0),
		user:    user,
		key:     key.Key.String(),
	}
	handler, err := apihttp.NewHandler(apihttp.Services{
		Catalog: catalog,
		Users:   users,
		History: f.history,
		Tasks:   queue.New(f.broker, memory.NewResults()),
	}, opts...)
	require.NoError(t, err)
	f.handler = handler
	return f
}

func (f *fixture) do(t *testing.T, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) authHeader() string { return "Api-Key " + f.key }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apihttp.ErrorResponse {
	t.Helper()
	var body apihttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.False(t, body.Success)
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	down := newFixture(t, apihttp.WithHealthCheck(func(context.Context) error { return errors.New("db gone") }))
	rec = down.do(t, http.MethodGet, "/health/", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInfoAndOpenAPIDocument(t *testing.T) {
	f := newFixture(t, apihttp.WithVersion("1.2.3"))

	rec := f.do(t, http.MethodGet, "/info", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info apihttp.InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Len(t, info.Simulations, len(domain.Kinds()))

	rec = f.do(t, http.MethodGet, "/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/simulations/travel-time/")
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t)
	const body = `{"star_system_id": 1, "speed_percentage": 50}`

	t.Run("missing header", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/simulations/travel-time/", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Api-Key", rec.Header().Get("WWW-Authenticate"))
		e := decodeError(t, rec)
		assert.Equal(t, apihttp.CodeAuthentication, e.Code)
		assert.Equal(t, "Authentication credentials were not provided.", e.Message)
	})

	cases := map[string]string{
		"Bearer " + f.key:             `Invalid API key prefix. Must be "Api-Key".`,
		"Api-Key":                     "Invalid Authorization header format.",
		"Api-Key a b":                 "Invalid Authorization header format.",
		"Api-Key not-a-uuid":          "Invalid API Key provided.",
		"Api-Key " + uuid.NewString(): "Invalid API Key provided.",
	}
	for header, want := range cases {
		t.Run(header, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/simulations/travel-time/", header, body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, want, decodeError(t, rec).Message)
		})
	}

	t.Run("prefix is case-insensitive", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/simulations/travel-time/", "api-key "+f.key, body)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		g := newFixture(t)
		require.NoError(t, g.users.SetActive(context.Background(), g.user.ID, false))
		rec := g.do(t, http.MethodPost, "/simulations/travel-time/", g.authHeader(), body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("public route rejects bad key", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/rest/planets/", "Api-Key nope", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/rest/planets/", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSubmitAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	f := newFixture(t, apihttp.WithMetrics(metrics))

	rec := f.do(t, http.MethodPost, "/simulations/travel-time/", f.authHeader(), `{"star_system_id": 1, "speed_percentage": 50}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var accepted apihttp.TaskAccepted
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, "Simulation task has been started.", accepted.Message)
	require.NotEmpty(t, accepted.TaskID)
	assert.Equal(t, 1, f.broker.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Tasks.WithLabelValues(string(domain.KindTravelTime))))

	rec = f.do(t, http.MethodGet, "/tasks/status/"+accepted.TaskID+"/", f.authHeader(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, accepted.TaskID, status["task_id"])
	assert.Equal(t, "PENDING", status["status"])
	assert.Contains(t, status, "result")

	rec = f.do(t, http.MethodGet, "/tasks/status/unknown/", f.authHeader(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apihttp.CodeNotFound, decodeError(t, rec).Code)

	rec = f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exointel_tasks_submitted_total")
}

func TestSubmit_EveryKind(t *testing.T) {
	f := newFixture(t)
	bodies := map[string]string{
		"travel-time":    `{"star_system_id": 2, "speed_percentage": 1}`,
		"seasonal-temps": `{"planet_id": 100}`,
		"tidal-locking":  `{"planet_id": 101}`,
		"star-lifetime":  `{"star_id": 10}`,
	}
	for path, body := range bodies {
		rec := f.do(t, http.MethodPost, "/simulations/"+path+"/", f.authHeader(), body)
		assert.Equal(t, http.StatusAccepted, rec.Code, path)
	}
	assert.Equal(t, len(bodies), f.broker.Len())
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]struct {
		path string
		body string
	}{
		"speed above range":  {"travel-time", `{"star_system_id": 1, "speed_percentage": 150}`},
		"speed below range":  {"travel-time", `{"star_system_id": 1, "speed_percentage": 0.5}`},
		"missing speed":      {"travel-time", `{"star_system_id": 1}`},
		"non-integer planet": {"seasonal-temps", `{"planet_id": "abc"}`},
		"zero star":          {"star-lifetime", `{"star_id": 0}`},
		"malformed json":     {"tidal-locking", `{"planet_id":`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/simulations/"+tc.path+"/", f.authHeader(), tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, apihttp.CodeValidation, e.Code)
			assert.Equal(t, "Invalid input provided.", e.Message)
			assert.NotEmpty(t, e.Details)
		})
	}
	assert.Zero(t, f.broker.Len())
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older, err := f.history.Create(ctx, domain.NewRun(f.user.ID, "t-1", domain.KindStarLifetime, domain.Parameters{"star_id": 10}, base))
	require.NoError(t, err)
	newer, err := f.history.Create(ctx, domain.NewRun(f.user.ID, "t-2", domain.KindTidalLocking, domain.Parameters{"planet_id": 101}, base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = f.history.Create(ctx, domain.NewRun(f.user.ID+1, "t-3", domain.KindTravelTime, nil, base))
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/simulations/history/", f.authHeader(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []domain.SimulationRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
	assert.Equal(t, domain.KindTidalLocking, runs[0].Kind)

	rec = f.do(t, http.MethodGet, "/simulations/history/?limit=1&offset=1", f.authHeader(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, older.ID, runs[0].ID)

	rec = f.do(t, http.MethodGet, "/simulations/history/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)

	t.Run("planet filters", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/rest/planets/?habitability_score_min=50&ordering=-habitability_score", "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var planets []apihttp.PlanetResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &planets))
		require.Len(t, planets, 2)
		assert.Equal(t, int64(100), planets[0].ID)
		assert.Equal(t, "Kepler-452", planets[0].HostStar)
		require.NotNil(t, planets[0].HabitabilityScore)
		assert.Equal(t, 100, *planets[0].HabitabilityScore)
	})

	t.Run("bad filters", func(t *testing.T) {
		for _, q := range []string{"habitability_score_min=101", "radius_earth_max=big", "ordering=-color"} {
			rec := f.do(t, http.MethodGet, "/api/rest/planets/?"+q, "", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
			assert.Equal(t, apihttp.CodeValidation, decodeError(t, rec).Code, q)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/rest/planets/101/", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var planet map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &planet))
		assert.Equal(t, "Proxima b", planet["name"])
		assert.Equal(t, "Proxima Centauri", planet["host_star"])

		rec = f.do(t, http.MethodGet, "/api/rest/stars/20/", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"spectral_type":"G2 V"`)

		rec = f.do(t, http.MethodGet, "/api/rest/starsystems/1/", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Proxima Centauri"`)
	})

	t.Run("not found", func(t *testing.T) {
		for _, path := range []string{"/api/rest/planets/999/", "/api/rest/stars/999/", "/api/rest/starsystems/999/"} {
			rec := f.do(t, http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}
		rec := f.do(t, http.MethodGet, "/api/rest/planets/abc/", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/rest/stars/?limit=1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var stars []domain.Star
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stars))
		assert.Len(t, stars, 1)

		rec = f.do(t, http.MethodGet, "/api/rest/starsystems/", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var systems []domain.StarSystem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &systems))
		assert.Len(t, systems, 2)
	})
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodOptions, "/simulations/travel-time/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
