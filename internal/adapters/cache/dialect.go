package cache

import (
	"fmt"
	"strings"
)

// Dialect selects placeholder and list-binding syntax for the SQL caches.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// ParseDialect accepts the DB_DRIVER values used in configuration.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite", "":
		return SQLite, nil
	}
	return 0, fmt.Errorf("unknown sql dialect %q", driver)
}

// ph returns the n-th (1-based) bind placeholder.
func (d Dialect) ph(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// inList renders "<column> IN (...)" for values starting at placeholder
// position first, and the args to bind for it.
//
// Postgres binds the whole slice as one text[] parameter. SQLite does not
// support binding slices, so one placeholder per value is interpolated;
// all values remain parameterized.
func (d Dialect) inList(column string, first int, values []string) (string, []any) {
	if d == Postgres {
		return fmt.Sprintf("%s = ANY($%d::text[])", column, first), []any{values}
	}

	ph := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		ph[i] = "?"
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(ph, ",")), args
}

// uniqueKeys trims, drops empties, and dedupes while keeping order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
