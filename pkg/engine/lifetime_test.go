package engine_test

import (
	"testing"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarLifetime_Sun(t *testing.T) {
	res, err := engine.StarLifetime(sunLike())
	require.NoError(t, err)

	assert.Equal(t, engine.LuminosityMassRelation, res.LuminositySource)
	assert.InDelta(t, 10, res.LifetimeGyr, 1e-9)
	assert.InDelta(t, 1e10, res.LifetimeYears, 1)
	require.NotNil(t, res.RemainingGyr)
	assert.InDelta(t, 5.4, *res.RemainingGyr, 1e-9)
	require.NotNil(t, res.FractionElapsed)
	assert.InDelta(t, 0.46, *res.FractionElapsed, 1e-9)
}

func TestStarLifetime_ObservedLuminosity(t *testing.T) {
	star := sunLike()
	star.MassSun = domain.Float(2)
	star.LuminositySun = domain.Float(1) // 10 L_sun

	res, err := engine.StarLifetime(star)
	require.NoError(t, err)
	assert.Equal(t, engine.LuminosityObserved, res.LuminositySource)
	assert.InDelta(t, 10, res.LuminositySun, 1e-9)
	assert.InDelta(t, 2, res.LifetimeGyr, 1e-9)
}

func TestStarLifetime_MassiveStarsDieYoung(t *testing.T) {
	small, err := engine.StarLifetime(domain.Star{MassSun: domain.Float(0.5)})
	require.NoError(t, err)
	big, err := engine.StarLifetime(domain.Star{MassSun: domain.Float(5)})
	require.NoError(t, err)
	assert.Greater(t, small.LifetimeGyr, big.LifetimeGyr)
	assert.Nil(t, small.RemainingGyr)
}

func TestStarLifetime_OlderThanLifetime(t *testing.T) {
	star := domain.Star{MassSun: domain.Float(5), AgeGya: domain.Float(12)}
	res, err := engine.StarLifetime(star)
	require.NoError(t, err)
	require.NotNil(t, res.RemainingGyr)
	assert.Equal(t, 0.0, *res.RemainingGyr)
	assert.Greater(t, *res.FractionElapsed, 1.0)
}

func TestStarLifetime_MissingMass(t *testing.T) {
	for _, star := range []domain.Star{
		{Name: "no mass"},
		{Name: "zero mass", MassSun: domain.Float(0)},
		{Name: "negative mass", MassSun: domain.Float(-1)},
	} {
		t.Run(star.Name, func(t *testing.T) {
			_, err := engine.StarLifetime(star)
			assert.ErrorIs(t, err, domain.ErrMissingData)
		})
	}
}

func TestStarLifetime_ExtremeLuminosity(t *testing.T) {
	tests := []struct {
		name   string
		logLum float64
		age    *float64
	}{
		{"overflowing luminosity", 309, domain.Float(5)},
		{"overflowing luminosity without age", 400, nil},
		{"vanishing luminosity", -400, nil},
		{"subnormal luminosity overflows lifetime", -320, nil},
		{"elapsed fraction overflows", 308, domain.Float(50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			star := domain.Star{MassSun: domain.Float(1), LuminositySun: domain.Float(tt.logLum), AgeGya: tt.age}
			_, err := engine.StarLifetime(star)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStarLifetime_BrightButFinite(t *testing.T) {
	star := domain.Star{MassSun: domain.Float(1), LuminositySun: domain.Float(300), AgeGya: domain.Float(0)}
	res, err := engine.StarLifetime(star)
	require.NoError(t, err)
	assert.Greater(t, res.LifetimeGyr, 0.0)
	require.NotNil(t, res.FractionElapsed)
	assert.Equal(t, 0.0, *res.FractionElapsed)
}

func TestStarLifetime_NegativeAge(t *testing.T) {
	star := sunLike()
	star.AgeGya = domain.Float(-1)
	_, err := engine.StarLifetime(star)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Same rule as the tidal-locking simulation.
	_, err = engine.TidalLocking(earthLike(), star)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
