package ports

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func intp(v int) *int { return &v }

// SeedCatalog loads a small fixed catalog used by the contract suites and by
// higher-level tests that need real planets to simulate against.
//
//	system 1 "Proxima Centauri"  -> star 10 (M5.5 V) -> planets 101 "Proxima b", 102 "Proxima d"
//	system 2 "Kepler-452"        -> star 20 (G2 V)   -> planets 100 "Kepler-452 b", 103 "Kepler-452 c"
func SeedCatalog(ctx context.Context, w CatalogWriter) error {
	systems := []domain.StarSystem{
		{ID: 1, Name: "Proxima Centauri", NumStars: intp(1), NumPlanets: intp(2), DistanceParsecs: domain.Float(1.3012), RA: domain.Float(217.43), Dec: domain.Float(-62.68)},
		{ID: 2, Name: "Kepler-452", NumStars: intp(1), NumPlanets: intp(2), DistanceParsecs: domain.Float(551.7)},
	}
	stars := []domain.Star{
		{ID: 10, SystemID: 1, Name: "Proxima Centauri", SpectralType: str("M5.5 V"), MassSun: domain.Float(0.12), RadiusSun: domain.Float(0.154), EffectiveTemperatureK: domain.Float(2900), LuminositySun: domain.Float(-2.81), AgeGya: domain.Float(4.85)},
		{ID: 20, SystemID: 2, Name: "Kepler-452", SpectralType: str("G2 V"), MassSun: domain.Float(1.04), RadiusSun: domain.Float(1.11), EffectiveTemperatureK: domain.Float(5757), AgeGya: domain.Float(6)},
	}
	planets := []domain.Planet{
		{ID: 100, HostStarID: 20, Name: "Kepler-452 b", MassEarth: domain.Float(1), RadiusEarth: domain.Float(1), EquilibriumTemperatureK: domain.Float(255), SemiMajorAxisAU: domain.Float(1.046), OrbitalEccentricity: domain.Float(0.035), OrbitalPeriodDays: domain.Float(384.8)},
		{ID: 101, HostStarID: 10, Name: "Proxima b", MassEarth: domain.Float(1), RadiusEarth: domain.Float(1), EquilibriumTemperatureK: domain.Float(1000), SemiMajorAxisAU: domain.Float(0.0485), OrbitalEccentricity: domain.Float(0.02), OrbitalPeriodDays: domain.Float(11.19)},
		{ID: 102, HostStarID: 10, Name: "Proxima d", RadiusEarth: domain.Float(0.81), SemiMajorAxisAU: domain.Float(0.029), OrbitalPeriodDays: domain.Float(5.12)},
		{ID: 103, HostStarID: 20, Name: "Kepler-452 c", MassEarth: domain.Float(0.5), RadiusEarth: domain.Float(1), EquilibriumTemperatureK: domain.Float(255), OrbitalPeriodDays: domain.Float(900)},
	}

	for _, s := range systems {
		if err := w.PutStarSystem(ctx, s); err != nil {
			return fmt.Errorf("failed to seed star system %d: %w", s.ID, err)
		}
	}
	for _, s := range stars {
		if err := w.PutStar(ctx, s); err != nil {
			return fmt.Errorf("failed to seed star %d: %w", s.ID, err)
		}
	}
	for _, p := range planets {
		if err := w.PutPlanet(ctx, p); err != nil {
			return fmt.Errorf("failed to seed planet %d: %w", p.ID, err)
		}
	}
	return nil
}

func planetIDs(planets []domain.Planet) []int64 {
	ids := make([]int64, 0, len(planets))
	for _, p := range planets {
		ids = append(ids, p.ID)
	}
	return ids
}

// RunCatalogContract verifies that a CatalogStore implementation adheres to the
// Catalog and CatalogWriter contracts.
func RunCatalogContract(t *testing.T, store CatalogStore) {
	ctx := context.Background()
	require.NoError(t, SeedCatalog(ctx, store))

	t.Run("Get By ID", func(t *testing.T) {
		system, err := store.StarSystem(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Proxima Centauri", system.Name)
		require.NotNil(t, system.DistanceParsecs)
		assert.Equal(t, 1.3012, *system.DistanceParsecs)

		star, err := store.Star(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, star.SpectralType)
		assert.Equal(t, "M5.5 V", *star.SpectralType)
		assert.Equal(t, int64(1), star.SystemID)
	})

	t.Run("Planet Includes Host Star", func(t *testing.T) {
		planet, err := store.Planet(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, planet.HostStar)
		assert.Equal(t, int64(20), planet.HostStar.ID)
		assert.Nil(t, planet.HostStar.LuminositySun)

		sparse, err := store.Planet(ctx, 102)
		require.NoError(t, err)
		assert.Nil(t, sparse.MassEarth)
		assert.Nil(t, sparse.EquilibriumTemperatureK)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := store.StarSystem(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = store.Star(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = store.Planet(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List Systems And Stars", func(t *testing.T) {
		systems, err := store.ListStarSystems(ctx, domain.Page{})
		require.NoError(t, err)
		assert.Len(t, systems, 2)

		stars, err := store.ListStars(ctx, domain.Page{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, stars, 1)
	})

	t.Run("Habitability Annotation", func(t *testing.T) {
		planets, err := store.ListPlanets(ctx, domain.PlanetFilter{})
		require.NoError(t, err)
		require.Len(t, planets, 4)

		scores := map[int64]*int{}
		for _, p := range planets {
			scores[p.ID] = p.HabitabilityScore
		}
		require.NotNil(t, scores[100])
		assert.Equal(t, 100, *scores[100])
		require.NotNil(t, scores[101])
		assert.Equal(t, 40, *scores[101])
		assert.Nil(t, scores[102])
		require.NotNil(t, scores[103])
		assert.Equal(t, 80, *scores[103])
	})

	t.Run("Filters", func(t *testing.T) {
		sorted := func(p []domain.Planet) []int64 {
			ids := planetIDs(p)
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			return ids
		}

		min50 := 50
		planets, err := store.ListPlanets(ctx, domain.PlanetFilter{HabitabilityMin: &min50})
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 103}, sorted(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{HabitabilityMax: &min50})
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, sorted(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{HostStarType: "m"})
		require.NoError(t, err)
		assert.Equal(t, []int64{101, 102}, sorted(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{RadiusMax: domain.Float(0.9)})
		require.NoError(t, err)
		assert.Equal(t, []int64{102}, sorted(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{MassMin: domain.Float(0.75), MassMax: domain.Float(2)})
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 101}, sorted(planets))
	})

	t.Run("Ordering", func(t *testing.T) {
		planets, err := store.ListPlanets(ctx, domain.PlanetFilter{Ordering: "-habitability_score"})
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 103, 101, 102}, planetIDs(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{Ordering: "name"})
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 103, 101, 102}, planetIDs(planets))

		planets, err = store.ListPlanets(ctx, domain.PlanetFilter{Ordering: "orbital_period_days", Page: domain.Page{Limit: 2}})
		require.NoError(t, err)
		assert.Equal(t, []int64{102, 101}, planetIDs(planets))

		_, err = store.ListPlanets(ctx, domain.PlanetFilter{Ordering: "hostility"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Upsert", func(t *testing.T) {
		system, err := store.StarSystem(ctx, 2)
		require.NoError(t, err)
		system.Name = "Kepler-452 (renamed)"
		require.NoError(t, store.PutStarSystem(ctx, system))

		got, err := store.StarSystem(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Kepler-452 (renamed)", got.Name)

		systems, err := store.ListStarSystems(ctx, domain.Page{})
		require.NoError(t, err)
		assert.Len(t, systems, 2)
	})
}

// RunHistoryContract verifies that a RunHistory implementation adheres to the
// defined interface contract.
func RunHistoryContract(t *testing.T, history RunHistory) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	params := domain.Parameters{"star_system_id": 1.0, "speed_percentage": 10.0}

	t.Run("Create And Get", func(t *testing.T) {
		run, err := history.Create(ctx, domain.NewRun(1, "task-create", domain.KindTravelTime, params, base))
		require.NoError(t, err)
		assert.NotZero(t, run.ID)
		assert.Equal(t, domain.StatusPending, run.Status)

		got, err := history.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.KindTravelTime, got.Kind)
		assert.Equal(t, "task-create", got.TaskID)
		assert.Equal(t, params, got.InputParameters)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.Nil(t, got.CompletedAt)
		assert.WithinDuration(t, base, got.CreatedAt, time.Second)
	})

	t.Run("Complete Once", func(t *testing.T) {
		run, err := history.Create(ctx, domain.NewRun(1, "task-complete", domain.KindTravelTime, params, base))
		require.NoError(t, err)

		done := base.Add(5 * time.Second)
		result := domain.Result{"travel_time_years": 326.16}
		require.NoError(t, history.Complete(ctx, run.ID, domain.StatusSuccess, result, done))

		got, err := history.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, got.Status)
		assert.Equal(t, result, got.Result)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, done, *got.CompletedAt, time.Second)

		err = history.Complete(ctx, run.ID, domain.StatusFailure, domain.Result{"error": "late"}, done)
		assert.ErrorIs(t, err, domain.ErrRunTerminal)

		got, err = history.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, got.Status, "terminal status must not change")
	})

	t.Run("Complete Rejects Pending", func(t *testing.T) {
		run, err := history.Create(ctx, domain.NewRun(1, "task-pending", domain.KindStarLifetime, nil, base))
		require.NoError(t, err)
		err = history.Complete(ctx, run.ID, domain.StatusPending, nil, base)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := history.Get(ctx, 987654)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		err = history.Complete(ctx, 987654, domain.StatusFailure, domain.Result{"error": "x"}, base)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List By User Newest First", func(t *testing.T) {
		const user = 4242
		var ids []int64
		for i := 0; i < 3; i++ {
			run, err := history.Create(ctx, domain.NewRun(user, fmt.Sprintf("task-list-%d", i), domain.KindSeasonalTemps, domain.Parameters{"planet_id": 100.0}, base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
			ids = append(ids, run.ID)
		}
		_, err := history.Create(ctx, domain.NewRun(user+1, "task-other", domain.KindSeasonalTemps, nil, base))
		require.NoError(t, err)

		runs, err := history.ListByUser(ctx, user, domain.Page{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{runs[0].ID, runs[1].ID, runs[2].ID})

		runs, err = history.ListByUser(ctx, user, domain.Page{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, ids[1], runs[0].ID)
	})
}

// RunUserDirectoryContract verifies that a UserDirectory implementation adheres
// to the defined interface contract.
func RunUserDirectoryContract(t *testing.T, users UserDirectory) {
	ctx := context.Background()
	name := "ada-" + time.Now().Format("150405.000000")

	user, err := users.CreateUser(ctx, name)
	require.NoError(t, err)

	t.Run("Create And Get", func(t *testing.T) {
		assert.NotZero(t, user.ID)
		assert.True(t, user.Active)

		got, err := users.User(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)

		_, err = users.User(ctx, 99999999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		_, err := users.CreateUser(ctx, name)
		assert.Error(t, err)
	})

	t.Run("API Keys", func(t *testing.T) {
		key, err := users.IssueAPIKey(ctx, user.ID, "laptop")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, key.Key)
		assert.Equal(t, user.ID, key.UserID)

		got, err := users.Authenticate(ctx, key.Key)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = users.Authenticate(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = users.IssueAPIKey(ctx, 99999999, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Inactive Users Cannot Authenticate", func(t *testing.T) {
		other, err := users.CreateUser(ctx, name+"-inactive")
		require.NoError(t, err)
		key, err := users.IssueAPIKey(ctx, other.ID, "")
		require.NoError(t, err)

		require.NoError(t, users.SetActive(ctx, other.ID, false))
		_, err = users.Authenticate(ctx, key.Key)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		require.NoError(t, users.SetActive(ctx, other.ID, true))
		_, err = users.Authenticate(ctx, key.Key)
		assert.NoError(t, err)

		assert.ErrorIs(t, users.SetActive(ctx, 99999999, false), domain.ErrNotFound)
	})
}

// RunTaskBrokerContract verifies FIFO delivery and blocking semantics.
func RunTaskBrokerContract(t *testing.T, broker TaskBroker) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FIFO", func(t *testing.T) {
		first := domain.NewTask(1, domain.KindTravelTime, domain.Parameters{"star_system_id": 1.0, "speed_percentage": 50.0}, now)
		second := domain.NewTask(2, domain.KindStarLifetime, domain.Parameters{"star_id": 10.0}, now)
		require.NoError(t, broker.Enqueue(ctx, first))
		require.NoError(t, broker.Enqueue(ctx, second))

		got, err := broker.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.Kind, got.Kind)
		assert.Equal(t, first.Parameters, got.Parameters)
		assert.Equal(t, int64(1), got.UserID)

		got, err = broker.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("Dequeue Honors Context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := broker.Dequeue(ctx)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

// RunResultBackendContract verifies task status storage.
func RunResultBackendContract(t *testing.T, backend ResultBackend) {
	ctx := context.Background()
	taskID := uuid.NewString()

	t.Run("Unknown Task", func(t *testing.T) {
		_, err := backend.Status(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("Pending Then Success", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, backend.SetStatus(ctx, domain.TaskStatus{TaskID: taskID, Status: domain.StatusPending, UpdatedAt: now}))

		got, err := backend.Status(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.Nil(t, got.Result)

		result := domain.Result{"main_sequence_lifetime_gyr": 10.0, "star_name": "Sol"}
		require.NoError(t, backend.SetStatus(ctx, domain.TaskStatus{TaskID: taskID, Status: domain.StatusSuccess, Result: result, UpdatedAt: now}))

		got, err = backend.Status(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, taskID, got.TaskID)
		assert.Equal(t, domain.StatusSuccess, got.Status)
		assert.Equal(t, result, got.Result)
	})
}

// RunLockerContract verifies mutual exclusion of a DistributedLocker.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + uuid.NewString()

	unlock, err := locker.Lock(ctx, key, 10*time.Second)
	require.NoError(t, err)

	t.Run("Second Lock Blocks", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
		defer cancel()
		_, err := locker.Lock(ctx, key, 10*time.Second)
		assert.Error(t, err)
	})

	t.Run("Relock After Unlock", func(t *testing.T) {
		require.NoError(t, unlock(ctx))
		again, err := locker.Lock(ctx, key, 10*time.Second)
		require.NoError(t, err)
		assert.NoError(t, again(ctx))
	})
}
