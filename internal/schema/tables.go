package schema

import (
	"fmt"
	"strings"
)

// Table names.
const (
	TableSessions      = "sessions"
	TableDailyProgress = "daily_progress"
	TableUserProfile   = "user_profile"
	TableMigrations    = "schema_migrations"
)

// Column is one column as SQLite reports it through PRAGMA table_info.
// PK is the 1-based position in the primary key, 0 when not part of it.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull bool   `json:"not_null"`
	PK      int    `json:"pk"`
}

func (c Column) String() string {
	s := c.Name + " " + c.Type
	if c.NotNull {
		s += " NOT NULL"
	}
	if c.PK > 0 {
		s += fmt.Sprintf(" PK%d", c.PK)
	}
	return s
}

// Equal compares two columns structurally. Declared types are compared
// case-insensitively since SQLite preserves whatever case the DDL used.
func (c Column) Equal(o Column) bool {
	return c.Name == o.Name &&
		strings.EqualFold(c.Type, o.Type) &&
		c.NotNull == o.NotNull &&
		c.PK == o.PK
}

// Table is the expected definition of a data table.
type Table struct {
	Name          string   `json:"name"`
	Columns       []Column `json:"columns"`
	AutoIncrement bool     `json:"autoincrement,omitempty"`
}

// PrimaryKey returns the primary key column names in key order.
func (t Table) PrimaryKey() []string {
	keys := make([]string, 0, 1)
	for pos := 1; ; pos++ {
		found := false
		for _, c := range t.Columns {
			if c.PK == pos {
				keys = append(keys, c.Name)
				found = true
			}
		}
		if !found {
			return keys
		}
	}
}

// Column names shared with the query layer.
const (
	ColID              = "id"
	ColTimestampISO    = "timestampIso"
	ColExercise        = "exercise"
	ColReps            = "reps"
	ColDurationSeconds = "durationSeconds"
	ColTotalXP         = "totalXp"

	ColDate           = "date"
	ColPushups        = "pushups"
	ColSquats         = "squats"
	ColPlankSeconds   = "plankSeconds"
	ColBicepLeft      = "bicepLeft"
	ColBicepRight     = "bicepRight"
	ColGoalsMet       = "goalsMet"
	ColLastUpdatedISO = "lastUpdatedIso"

	ColName = "name"
)

// ProfileSlot is the fixed row id of the singleton profile.
const ProfileSlot = 1

var (
	sessions = Table{
		Name:          TableSessions,
		AutoIncrement: true,
		Columns: []Column{
			{Name: ColID, Type: "INTEGER", NotNull: true, PK: 1},
			{Name: ColTimestampISO, Type: "TEXT", NotNull: true},
			{Name: ColExercise, Type: "TEXT", NotNull: true},
			{Name: ColReps, Type: "INTEGER", NotNull: true},
			{Name: ColDurationSeconds, Type: "REAL", NotNull: true},
			{Name: ColTotalXP, Type: "INTEGER", NotNull: true},
		},
	}

	dailyProgress = Table{
		Name: TableDailyProgress,
		Columns: []Column{
			{Name: ColDate, Type: "TEXT", NotNull: true, PK: 1},
			{Name: ColPushups, Type: "INTEGER", NotNull: true},
			{Name: ColSquats, Type: "INTEGER", NotNull: true},
			{Name: ColPlankSeconds, Type: "INTEGER", NotNull: true},
			{Name: ColBicepLeft, Type: "INTEGER", NotNull: true},
			{Name: ColBicepRight, Type: "INTEGER", NotNull: true},
			{Name: ColGoalsMet, Type: "INTEGER", NotNull: true},
			{Name: ColLastUpdatedISO, Type: "TEXT", NotNull: true},
		},
	}

	userProfile = Table{
		Name: TableUserProfile,
		Columns: []Column{
			{Name: ColID, Type: "INTEGER", NotNull: true, PK: 1},
			{Name: ColTotalXP, Type: "INTEGER", NotNull: true},
			{Name: ColName, Type: "TEXT", NotNull: true},
		},
	}
)

// Tables returns the expected data tables in creation order.
// The returned slice is a fresh copy and may be modified by the caller.
func Tables() []Table {
	out := make([]Table, 0, 3)
	for _, t := range []Table{sessions, dailyProgress, userProfile} {
		cols := make([]Column, len(t.Columns))
		copy(cols, t.Columns)
		t.Columns = cols
		out = append(out, t)
	}
	return out
}

// Lookup returns the expected definition of the named data table.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// CreateStatement renders the CREATE TABLE statement for t.
func CreateStatement(t Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS `%s` (", t.Name)

	pk := t.PrimaryKey()
	inlinePK := t.AutoIncrement && len(pk) == 1

	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "`%s` %s", c.Name, c.Type)
		if inlinePK && c.PK == 1 {
			b.WriteString(" PRIMARY KEY AUTOINCREMENT")
		}
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
	}

	if !inlinePK && len(pk) > 0 {
		quoted := make([]string, len(pk))
		for i, k := range pk {
			quoted[i] = "`" + k + "`"
		}
		fmt.Fprintf(&b, ", PRIMARY KEY(%s)", strings.Join(quoted, ", "))
	}
	b.WriteString(")")
	return b.String()
}

// CreateScript renders the DDL for every data table, one statement per line.
func CreateScript() string {
	var b strings.Builder
	for _, t := range Tables() {
		b.WriteString(CreateStatement(t))
		b.WriteString(";\n")
	}
	return b.String()
}

// MigrationsTableDDL creates the version-tracking table.
const MigrationsTableDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	identity_hash TEXT NOT NULL,
	install_id TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// Matches reports whether the columns found on disk match t. Column order
// is ignored: migrated databases append columns in history order, not in
// declaration order.
func (t Table) Matches(found []Column) bool {
	if len(found) != len(t.Columns) {
		return false
	}
	byName := make(map[string]Column, len(found))
	for _, c := range found {
		byName[c.Name] = c
	}
	for _, want := range t.Columns {
		got, ok := byName[want.Name]
		if !ok || !want.Equal(got) {
			return false
		}
	}
	return true
}
