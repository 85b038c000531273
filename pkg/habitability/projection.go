package habitability

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavor of the projection.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Columns names the SQL expressions holding the scoring inputs.
type Columns struct {
	Mass        string
	Radius      string
	Temperature string
}

// DefaultColumns are the planet columns of the catalog schema, aliased as p.
var DefaultColumns = Columns{
	Mass:        "p.mass_earth",
	Radius:      "p.radius_earth",
	Temperature: "p.equilibrium_temperature_k",
}

const sqliteTemplate = `(CASE WHEN {m} IS NULL OR {r} IS NULL OR {t} IS NULL OR NOT ({r} > 0) THEN NULL ELSE ` +
	`CAST(((MAX(0.0, 100.0 - ABS(CAST({t} AS REAL) - 255.0) / 5.0) * 0.6) + ` +
	`((CASE WHEN CAST({m} AS REAL) / (CAST({r} AS REAL) * CAST({r} AS REAL) * CAST({r} AS REAL)) >= 0.75 THEN 100.0 ` +
	`WHEN CAST({m} AS REAL) / (CAST({r} AS REAL) * CAST({r} AS REAL) * CAST({r} AS REAL)) >= 0.5 THEN 50.0 ` +
	`ELSE 0.0 END) * 0.4)) + 0.5 AS INTEGER) END)`

const postgresTemplate = `(CASE WHEN {m} IS NULL OR {r} IS NULL OR {t} IS NULL OR NOT ({r} > 0) THEN NULL ELSE ` +
	`FLOOR(((GREATEST(0.0::double precision, 100.0::double precision - ABS({t}::double precision - 255.0::double precision) / 5.0::double precision) * 0.6::double precision) + ` +
	`((CASE WHEN {m}::double precision / ({r}::double precision * {r}::double precision * {r}::double precision) >= 0.75::double precision THEN 100.0::double precision ` +
	`WHEN {m}::double precision / ({r}::double precision * {r}::double precision * {r}::double precision) >= 0.5::double precision THEN 50.0::double precision ` +
	`ELSE 0.0::double precision END) * 0.4::double precision)) + 0.5::double precision)::integer END)`

// Projection renders Score as a SQL expression over cols. The expression
// yields NULL exactly when Score returns nil. SQLite's CAST truncates, which
// equals floor here because the operand is never negative.
func Projection(d Dialect, cols Columns) (string, error) {
	var tmpl string
	switch d {
	case SQLite:
		tmpl = sqliteTemplate
	case Postgres:
		tmpl = postgresTemplate
	default:
		return "", fmt.Errorf("unsupported habitability dialect %q", d)
	}
	r := strings.NewReplacer("{m}", cols.Mass, "{r}", cols.Radius, "{t}", cols.Temperature)
	return r.Replace(tmpl), nil
}
