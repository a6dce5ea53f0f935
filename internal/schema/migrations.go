package schema

// Migration is one ordered step in the schema history.
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

// Migrations returns every step in version order. Steps only ever add
// tables or columns, and each statement tolerates a partially migrated
// database where SQLite allows it.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create sessions",
			Statements: []string{
				CreateStatement(sessions),
			},
		},
		{
			Version:     2,
			Description: "create daily_progress",
			Statements: []string{
				"CREATE TABLE IF NOT EXISTS daily_progress (date TEXT NOT NULL PRIMARY KEY, pushups INTEGER NOT NULL DEFAULT 0, squats INTEGER NOT NULL DEFAULT 0, plankSeconds INTEGER NOT NULL DEFAULT 0, goalsMet INTEGER NOT NULL DEFAULT 0, lastUpdatedIso TEXT NOT NULL)",
			},
		},
		{
			Version:     3,
			Description: "create user_profile",
			Statements: []string{
				"CREATE TABLE IF NOT EXISTS user_profile (id INTEGER NOT NULL PRIMARY KEY, totalXp INTEGER NOT NULL DEFAULT 0)",
			},
		},
		{
			Version:     4,
			Description: "add user_profile.name",
			Statements: []string{
				"ALTER TABLE user_profile ADD COLUMN name TEXT NOT NULL DEFAULT ''",
			},
		},
		{
			Version:     5,
			Description: "add daily_progress bicep counters",
			Statements: []string{
				"ALTER TABLE daily_progress ADD COLUMN bicepLeft INTEGER NOT NULL DEFAULT 0",
				"ALTER TABLE daily_progress ADD COLUMN bicepRight INTEGER NOT NULL DEFAULT 0",
			},
		},
	}
}

// LatestVersion is the version a fully migrated database reports.
func LatestVersion() int {
	m := Migrations()
	return m[len(m)-1].Version
}

// Pending returns the steps with a version greater than from.
func Pending(from int) []Migration {
	var out []Migration
	for _, m := range Migrations() {
		if m.Version > from {
			out = append(out, m)
		}
	}
	return out
}
