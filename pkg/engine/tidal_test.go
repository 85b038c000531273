package engine_test

import (
	"testing"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTidalLocking_CloseInIsLocked(t *testing.T) {
	planet := earthLike()
	planet.SemiMajorAxisAU = domain.Float(0.005)

	res, err := engine.TidalLocking(planet, sunLike())
	require.NoError(t, err)
	assert.True(t, res.IsLikelyTidallyLocked)
	assert.InDelta(t, 4.6e9, res.StarAgeYears, 1)
	assert.Less(t, res.LockingTimescaleYears, res.StarAgeYears)
	assert.Contains(t, res.Conclusion, "Likely tidally locked")
	assert.Contains(t, res.Conclusion, "4,600,000,000")
}

func TestTidalLocking_FarOutIsFree(t *testing.T) {
	res, err := engine.TidalLocking(earthLike(), sunLike())
	require.NoError(t, err)
	assert.False(t, res.IsLikelyTidallyLocked)
	assert.Contains(t, res.Conclusion, "Not likely tidally locked")
}

// Widening the orbit flips a planet from locked to free exactly once.
func TestTidalLocking_MonotonicInDistance(t *testing.T) {
	var samples []bool
	for a := 0.001; a <= 1000; a *= 1.5 {
		planet := earthLike()
		planet.SemiMajorAxisAU = domain.Float(a)

		res, err := engine.TidalLocking(planet, sunLike())
		require.NoError(t, err, "a=%v", a)
		samples = append(samples, res.IsLikelyTidallyLocked)
	}

	require.NotEmpty(t, samples)
	assert.True(t, samples[0], "closest orbit should be locked")
	assert.False(t, samples[len(samples)-1], "widest orbit should be free")

	flips := 0
	for i := 1; i < len(samples); i++ {
		if samples[i] != samples[i-1] {
			assert.False(t, samples[i], "sample %d flipped back to locked", i)
			flips++
		}
	}
	assert.Equal(t, 1, flips)
}

func TestTidalLocking_MissingData(t *testing.T) {
	planet := earthLike()
	planet.RadiusEarth = nil
	star := sunLike()
	star.AgeGya = nil

	_, err := engine.TidalLocking(planet, star)
	var missing *domain.MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"radius_earth", "host_star.age_gya"}, missing.Fields)
}

func TestLockingTimescaleYears_Invalid(t *testing.T) {
	tests := []struct {
		name                   string
		mass, radius, a, starM float64
	}{
		{"zero radius", 1, 0, 1, 1},
		{"zero star mass", 1, 1, 1, 0},
		{"negative mass", -1, 1, 1, 1},
		{"negative axis", 1, 1, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.LockingTimescaleYears(tt.mass, tt.radius, tt.a, tt.starM)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestTidalLocking_NegativeAge(t *testing.T) {
	star := sunLike()
	star.AgeGya = domain.Float(-1)
	_, err := engine.TidalLocking(earthLike(), star)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
