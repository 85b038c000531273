package dispatch_test

import (
	"context"
	"testing"

	"github.com/codenameuriel/exo-intel/pkg/adapters/memory"
	"github.com/codenameuriel/exo-intel/pkg/dispatch"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/engine"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) (*dispatch.Dispatcher, *memory.Catalog) {
	t.Helper()
	catalog := memory.NewCatalog()
	require.NoError(t, ports.SeedCatalog(context.Background(), catalog))
	return dispatch.New(catalog), catalog
}

func TestResolve_EveryKind(t *testing.T) {
	d, _ := newDispatcher(t)
	for _, kind := range domain.Kinds() {
		sim, err := d.Resolve(kind)
		assert.NoError(t, err, "kind %s has no simulation", kind)
		assert.NotNil(t, sim)
	}
}

func TestResolve_UnknownKind(t *testing.T) {
	d, _ := newDispatcher(t)
	_, err := d.Resolve("WARP_DRIVE")
	assert.ErrorIs(t, err, domain.ErrUnknownSimulationKind)
}

func TestRun_TravelTime(t *testing.T) {
	d, _ := newDispatcher(t)
	ctx := context.Background()

	res, err := d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": 1.0, "speed_percentage": 50.0})
	require.NoError(t, err)
	assert.Equal(t, 8.49, res["travel_time_years"])
	assert.Equal(t, "Proxima Centauri", res["star_system_name"])
	assert.Equal(t, int64(1), res["star_system_id"])

	// String values from form posts decode the same way.
	res, err = d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": "1", "speed_percentage": "50"})
	require.NoError(t, err)
	assert.Equal(t, 8.49, res["travel_time_years"])
}

func TestRun_TravelTimeErrors(t *testing.T) {
	d, _ := newDispatcher(t)
	ctx := context.Background()

	_, err := d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": 1.0})
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "speed_percentage", invalid.Field)

	_, err = d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": 999.0, "speed_percentage": 10.0})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": "abc", "speed_percentage": 10.0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = d.Run(ctx, domain.KindTravelTime, domain.Parameters{"star_system_id": 1.0, "speed_percentage": 0.0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRun_SeasonalTemps(t *testing.T) {
	d, _ := newDispatcher(t)
	res, err := d.Run(context.Background(), domain.KindSeasonalTemps, domain.Parameters{"planet_id": 100.0})
	require.NoError(t, err)

	assert.Equal(t, engine.LuminosityStefanBoltzmann, res["luminosity_source"])
	peri, ok := res["periastron_temp_k"].(engine.Kelvin)
	require.True(t, ok)
	apo := res["apoastron_temp_k"].(engine.Kelvin)
	assert.Greater(t, float64(peri), float64(apo))

	_, err = d.Run(context.Background(), domain.KindSeasonalTemps, domain.Parameters{"planet_id": 103.0})
	assert.ErrorIs(t, err, domain.ErrMissingData)
}

func TestRun_TidalLocking(t *testing.T) {
	d, _ := newDispatcher(t)
	res, err := d.Run(context.Background(), domain.KindTidalLocking, domain.Parameters{"planet_id": 101.0})
	require.NoError(t, err)
	assert.Equal(t, false, res["is_likely_tidally_locked"])
	assert.Contains(t, res["conclusion"], "Not likely tidally locked")

	_, err = d.Run(context.Background(), domain.KindTidalLocking, domain.Parameters{"planet_id": 102.0})
	assert.ErrorIs(t, err, domain.ErrMissingData)
}

func TestRun_StarLifetime(t *testing.T) {
	d, catalog := newDispatcher(t)
	ctx := context.Background()

	res, err := d.Run(ctx, domain.KindStarLifetime, domain.Parameters{"star_id": 10.0})
	require.NoError(t, err)
	assert.Equal(t, engine.LuminosityObserved, res["luminosity_source"])
	assert.InDelta(t, 774.6, res["main_sequence_lifetime_gyr"].(float64), 0.5)
	assert.IsType(t, float64(0), res["remaining_gyr"])

	require.NoError(t, catalog.PutStar(ctx, domain.Star{ID: 30, SystemID: 1, Name: "Ageless", MassSun: domain.Float(1)}))
	res, err = d.Run(ctx, domain.KindStarLifetime, domain.Parameters{"star_id": 30.0})
	require.NoError(t, err)
	assert.NotContains(t, res, "remaining_gyr")
	assert.NotContains(t, res, "age_gya")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.Kind
		params  domain.Parameters
		wantErr error
	}{
		{"travel ok", domain.KindTravelTime, domain.Parameters{"star_system_id": 1, "speed_percentage": 100}, nil},
		{"speed too low", domain.KindTravelTime, domain.Parameters{"star_system_id": 1, "speed_percentage": 0.5}, domain.ErrInvalidInput},
		{"speed too high", domain.KindTravelTime, domain.Parameters{"star_system_id": 1, "speed_percentage": 101}, domain.ErrInvalidInput},
		{"missing system", domain.KindTravelTime, domain.Parameters{"speed_percentage": 10}, domain.ErrInvalidInput},
		{"planet ok", domain.KindSeasonalTemps, domain.Parameters{"planet_id": 3}, nil},
		{"planet zero", domain.KindTidalLocking, domain.Parameters{"planet_id": 0}, domain.ErrInvalidInput},
		{"planet garbage", domain.KindTidalLocking, domain.Parameters{"planet_id": "x"}, domain.ErrInvalidInput},
		{"star ok", domain.KindStarLifetime, domain.Parameters{"star_id": "7"}, nil},
		{"star missing", domain.KindStarLifetime, nil, domain.ErrInvalidInput},
		{"unknown kind", "WARP_DRIVE", nil, domain.ErrUnknownSimulationKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dispatch.Validate(tt.kind, tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
