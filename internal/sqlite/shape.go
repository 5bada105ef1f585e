package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// objectType returns the sqlite_master type of the object called name, or
// the empty string when no such object exists.
func objectType(ctx context.Context, q queryer, name string) (string, error) {
	var typ string
	err := q.QueryRowContext(ctx,
		`SELECT type FROM sqlite_master WHERE name = ? ORDER BY type = 'table' DESC LIMIT 1`, name).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", name, err)
	}
	return typ, nil
}

// existingColumns reads the columns of table from PRAGMA table_info.
func existingColumns(ctx context.Context, q queryer, table string) ([]column, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var (
			c       column
			notNull int
			pk      int
			dflt    sql.NullString
		)
		if err := rows.Scan(&c.name, &c.typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		c.notNull = notNull != 0
		c.pk = pk != 0
		c.dflt = dflt.String
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	return cols, nil
}

// checkTable compares the object named spec.name with the declared shape.
// present is false when no object of that name exists. Each returned
// conflict is a human-readable description; an empty slice means the
// existing table is compatible. Extra nullable or defaulted columns are
// tolerated.
func checkTable(ctx context.Context, q queryer, spec tableSpec) (present bool, conflicts []string, err error) {
	typ, err := objectType(ctx, q, spec.name)
	if err != nil {
		return false, nil, err
	}
	if typ == "" {
		return false, nil, nil
	}
	if typ != "table" {
		return true, []string{fmt.Sprintf("%s is a %s, expected table", spec.name, typ)}, nil
	}

	existing, err := existingColumns(ctx, q, spec.name)
	if err != nil {
		return true, nil, err
	}
	byName := make(map[string]column, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.name)] = c
	}

	declared := make(map[string]bool, len(spec.columns))
	for _, want := range spec.columns {
		declared[want.name] = true
		got, ok := byName[want.name]
		if !ok {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s is missing", spec.name, want.name))
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(got.typ), want.typ) {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s has type %q, expected %q", spec.name, want.name, got.typ, want.typ))
		}
		if got.notNull != want.notNull {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s NOT NULL is %t, expected %t", spec.name, want.name, got.notNull, want.notNull))
		}
		if got.pk != want.pk {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s primary key is %t, expected %t", spec.name, want.name, got.pk, want.pk))
		}
		if !sameDefault(got.dflt, want.dflt) {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s default is %q, expected %q", spec.name, want.name, got.dflt, want.dflt))
		}
	}
	for _, c := range existing {
		if declared[strings.ToLower(c.name)] {
			continue
		}
		if c.notNull && c.dflt == "" {
			conflicts = append(conflicts, fmt.Sprintf("%s.%s is an undeclared NOT NULL column without default", spec.name, c.name))
		}
	}
	return true, conflicts, nil
}

// sameDefault compares default expressions. Keywords compare
// case-insensitively; quoted literals compare exactly.
func sameDefault(got, want string) bool {
	got, want = strings.TrimSpace(got), strings.TrimSpace(want)
	if strings.HasPrefix(want, "'") {
		return got == want
	}
	return strings.EqualFold(got, want)
}
