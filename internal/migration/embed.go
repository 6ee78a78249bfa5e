package migration

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS

// Default returns a Config pointing at the embedded migration files.
func Default() Config {
	return Config{
		MigrationsPath: "migrations",
		MigrationsFS:   MigrationsFS,
	}
}
