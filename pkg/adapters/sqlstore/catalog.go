package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// Catalog implements ports.CatalogStore.
type Catalog struct {
	db *DB
}

const (
	systemColumns = `id, name, num_stars, num_planets, distance_parsecs, ra_deg, dec_deg`
	starColumns   = `id, system_id, name, spectral_type, mass_sun, radius_sun, effective_temperature_k, luminosity_sun, age_gya`
	planetColumns = `id, host_star_id, name, mass_earth, radius_earth, equilibrium_temperature_k, semi_major_axis_au, orbital_eccentricity, orbital_period_days`
)

func (c *Catalog) get(ctx context.Context, dest any, query string, id int64) error {
	err := c.db.conn.GetContext(ctx, dest, c.db.rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (c *Catalog) StarSystem(ctx context.Context, id int64) (domain.StarSystem, error) {
	var s domain.StarSystem
	if err := c.get(ctx, &s, `SELECT `+systemColumns+` FROM star_systems WHERE id = ?`, id); err != nil {
		return domain.StarSystem{}, fmt.Errorf("failed to get star system %d: %w", id, err)
	}
	return s, nil
}

func (c *Catalog) Star(ctx context.Context, id int64) (domain.Star, error) {
	var s domain.Star
	if err := c.get(ctx, &s, `SELECT `+starColumns+` FROM stars WHERE id = ?`, id); err != nil {
		return domain.Star{}, fmt.Errorf("failed to get star %d: %w", id, err)
	}
	return s, nil
}

// Planet returns the planet with its host star and habitability score.
func (c *Catalog) Planet(ctx context.Context, id int64) (domain.Planet, error) {
	var p domain.Planet
	query := `SELECT ` + prefixed("p", planetColumns) + `, ` + c.db.score + ` AS habitability_score FROM planets p WHERE p.id = ?`
	if err := c.get(ctx, &p, query, id); err != nil {
		return domain.Planet{}, fmt.Errorf("failed to get planet %d: %w", id, err)
	}

	star, err := c.Star(ctx, p.HostStarID)
	if err != nil {
		return domain.Planet{}, err
	}
	p.HostStar = &star
	return p, nil
}

func (c *Catalog) ListStarSystems(ctx context.Context, page domain.Page) ([]domain.StarSystem, error) {
	page = page.Normalize()
	out := []domain.StarSystem{}
	query := c.db.rebind(`SELECT ` + systemColumns + ` FROM star_systems ORDER BY id LIMIT ? OFFSET ?`)
	if err := c.db.conn.SelectContext(ctx, &out, query, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list star systems: %w", err)
	}
	return out, nil
}

func (c *Catalog) ListStars(ctx context.Context, page domain.Page) ([]domain.Star, error) {
	page = page.Normalize()
	out := []domain.Star{}
	query := c.db.rebind(`SELECT ` + starColumns + ` FROM stars ORDER BY id LIMIT ? OFFSET ?`)
	if err := c.db.conn.SelectContext(ctx, &out, query, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list stars: %w", err)
	}
	return out, nil
}

// ListPlanets evaluates the habitability projection in the database so
// filters and ordering on the score run server-side.
func (c *Catalog) ListPlanets(ctx context.Context, filter domain.PlanetFilter) ([]domain.Planet, error) {
	field, desc, err := domain.ParseOrdering(filter.Ordering)
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	bound := func(expr string, v any) {
		where = append(where, expr)
		args = append(args, v)
	}
	if filter.HabitabilityMin != nil {
		bound("q.habitability_score >= ?", *filter.HabitabilityMin)
	}
	if filter.HabitabilityMax != nil {
		bound("q.habitability_score <= ?", *filter.HabitabilityMax)
	}
	if filter.RadiusMin != nil {
		bound("q.radius_earth >= ?", *filter.RadiusMin)
	}
	if filter.RadiusMax != nil {
		bound("q.radius_earth <= ?", *filter.RadiusMax)
	}
	if filter.MassMin != nil {
		bound("q.mass_earth >= ?", *filter.MassMin)
	}
	if filter.MassMax != nil {
		bound("q.mass_earth <= ?", *filter.MassMax)
	}
	if filter.HostStarType != "" {
		bound(`UPPER(q.host_spectral_type) LIKE ? ESCAPE '\'`, likePrefix(strings.ToUpper(filter.HostStarType)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + prefixed("q", planetColumns) + `, q.habitability_score FROM (`)
	b.WriteString(`SELECT ` + prefixed("p", planetColumns) + `, ` + c.db.score + ` AS habitability_score, s.spectral_type AS host_spectral_type `)
	b.WriteString(`FROM planets p JOIN stars s ON s.id = p.host_star_id) q`)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, " AND "))
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	fmt.Fprintf(&b, ` ORDER BY q.%s %s NULLS LAST, q.id ASC LIMIT ? OFFSET ?`, field, dir)

	page := filter.Page.Normalize()
	args = append(args, page.Limit, page.Offset)

	out := []domain.Planet{}
	if err := c.db.conn.SelectContext(ctx, &out, c.db.rebind(b.String()), args...); err != nil {
		return nil, fmt.Errorf("failed to list planets: %w", err)
	}
	return out, nil
}

func (c *Catalog) PutStarSystem(ctx context.Context, s domain.StarSystem) error {
	query := `INSERT INTO star_systems (` + systemColumns + `) VALUES (:id, :name, :num_stars, :num_planets, :distance_parsecs, :ra_deg, :dec_deg)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, num_stars = excluded.num_stars, num_planets = excluded.num_planets,
		distance_parsecs = excluded.distance_parsecs, ra_deg = excluded.ra_deg, dec_deg = excluded.dec_deg`
	if _, err := c.db.conn.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("failed to save star system %d: %w", s.ID, err)
	}
	return nil
}

func (c *Catalog) PutStar(ctx context.Context, s domain.Star) error {
	query := `INSERT INTO stars (` + starColumns + `) VALUES (:id, :system_id, :name, :spectral_type, :mass_sun, :radius_sun, :effective_temperature_k, :luminosity_sun, :age_gya)
		ON CONFLICT (id) DO UPDATE SET system_id = excluded.system_id, name = excluded.name, spectral_type = excluded.spectral_type,
		mass_sun = excluded.mass_sun, radius_sun = excluded.radius_sun, effective_temperature_k = excluded.effective_temperature_k,
		luminosity_sun = excluded.luminosity_sun, age_gya = excluded.age_gya`
	if _, err := c.db.conn.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("failed to save star %d: %w", s.ID, err)
	}
	return nil
}

func (c *Catalog) PutPlanet(ctx context.Context, p domain.Planet) error {
	query := `INSERT INTO planets (` + planetColumns + `) VALUES (:id, :host_star_id, :name, :mass_earth, :radius_earth, :equilibrium_temperature_k, :semi_major_axis_au, :orbital_eccentricity, :orbital_period_days)
		ON CONFLICT (id) DO UPDATE SET host_star_id = excluded.host_star_id, name = excluded.name, mass_earth = excluded.mass_earth,
		radius_earth = excluded.radius_earth, equilibrium_temperature_k = excluded.equilibrium_temperature_k,
		semi_major_axis_au = excluded.semi_major_axis_au, orbital_eccentricity = excluded.orbital_eccentricity,
		orbital_period_days = excluded.orbital_period_days`
	if _, err := c.db.conn.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to save planet %d: %w", p.ID, err)
	}
	return nil
}

func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ", ")
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}
