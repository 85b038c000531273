package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/adapters/sqlstore"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/habitability"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlstore.DB {
	t.Helper()
	cfg := sqlstore.DefaultConfig()
	cfg.URL = filepath.Join(t.TempDir(), "exointel.db")

	db, err := sqlstore.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestCatalog_Contract(t *testing.T) {
	ports.RunCatalogContract(t, openTestDB(t).Catalog())
}

func TestHistory_Contract(t *testing.T) {
	ports.RunHistoryContract(t, openTestDB(t).History())
}

func TestUsers_Contract(t *testing.T) {
	ports.RunUserDirectoryContract(t, openTestDB(t).Users())
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Migrate(context.Background()))
	assert.Equal(t, habitability.SQLite, db.Dialect())
}

func TestConfig_Validate(t *testing.T) {
	cfg := sqlstore.DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Driver = "mysql"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.URL = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxIdleConns = bad.MaxOpenConns + 1
	assert.Error(t, bad.Validate())
}

// Scores served by the catalog listing come from SQL; they must equal the
// in-process scorer for every seeded planet.
func TestCatalog_ScoresMatchScorer(t *testing.T) {
	ctx := context.Background()
	catalog := openTestDB(t).Catalog()

	temps := []float64{40, 217.5, 230.83333333333334, 255, 279.1666666666667, 292.5, 600}
	radii := []float64{0.5, 1, 1.1447142425533319, 2.2}
	require.NoError(t, catalog.PutStarSystem(ctx, domain.StarSystem{ID: 1, Name: "grid"}))
	require.NoError(t, catalog.PutStar(ctx, domain.Star{ID: 1, SystemID: 1, Name: "grid"}))

	id := int64(0)
	for _, temp := range temps {
		for _, r := range radii {
			id++
			require.NoError(t, catalog.PutPlanet(ctx, domain.Planet{
				ID: id, HostStarID: 1, Name: "p",
				MassEarth: domain.Float(0.9), RadiusEarth: domain.Float(r), EquilibriumTemperatureK: domain.Float(temp),
			}))
		}
	}

	planets, err := catalog.ListPlanets(ctx, domain.PlanetFilter{Page: domain.Page{Limit: 1000}})
	require.NoError(t, err)
	require.Len(t, planets, int(id))
	for _, p := range planets {
		want := habitability.Score(p.MassEarth, p.RadiusEarth, p.EquilibriumTemperatureK)
		require.NotNil(t, p.HabitabilityScore, "planet %d", p.ID)
		assert.Equal(t, *want, *p.HabitabilityScore, "planet %d", p.ID)
	}
}

func TestHistory_InfiniteTemperaturesRoundTrip(t *testing.T) {
	ctx := context.Background()
	history := openTestDB(t).History()

	run, err := history.Create(ctx, domain.NewRun(1, "t", domain.KindSeasonalTemps, domain.Parameters{"planet_id": 1.0}, time.Now()))
	require.NoError(t, err)

	require.NoError(t, history.Complete(ctx, run.ID, domain.StatusSuccess, domain.Result{"periastron_temp_k": "Infinity"}, time.Now()))
	got, err := history.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Infinity", got.Result["periastron_temp_k"])
}
