package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/fadedpez/coinpurse/internal/logging"
	"github.com/fadedpez/coinpurse/pkg/db/migrations"
)

var drivers = map[migrations.Dialect]string{
	migrations.SQLite:   "sqlite3",
	migrations.Postgres: "pgx",
}

func main() {
	// Define command-line flags
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	// Create command options
	createDialect := createCmd.String("dialect", "sqlite", "Dialect the migration is written for (sqlite or postgres)")
	migrationsDir := createCmd.String("dir", "pkg/db/migrations", "Directory holding the dialect migration folders")

	// Migrate and version command options
	migrateDialect := migrateCmd.String("dialect", "sqlite", "Database dialect (sqlite or postgres)")
	migrateDSN := migrateCmd.String("db", "data/coinpurse.db", "SQLite path or PostgreSQL DSN")
	versionDialect := versionCmd.String("dialect", "sqlite", "Database dialect (sqlite or postgres)")
	versionDSN := versionCmd.String("db", "data/coinpurse.db", "SQLite path or PostgreSQL DSN")

	// Show usage if no arguments provided
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: "info", Pretty: true})
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		if createCmd.NArg() < 1 {
			fmt.Println("Error: Missing migration description")
			createCmd.Usage()
			os.Exit(1)
		}
		err = createMigration(filepath.Join(*migrationsDir, *createDialect), createCmd.Arg(0))

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		err = withDB(migrations.Dialect(*migrateDialect), *migrateDSN, func(db *sql.DB) error {
			return migrations.Up(ctx, db, migrations.Dialect(*migrateDialect), log)
		})
		if err == nil {
			fmt.Println("Migrations applied successfully!")
		}

	case "version":
		versionCmd.Parse(os.Args[2:])
		err = withDB(migrations.Dialect(*versionDialect), *versionDSN, func(db *sql.DB) error {
			migrator, err := migrations.NewMigrator(db, migrations.Dialect(*versionDialect), log)
			if err != nil {
				return err
			}
			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database is at version %d\n", version)
			return nil
		})

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Migration command failed")
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run cmd/migration/main.go create [-dialect sqlite|postgres] DESCRIPTION  - Create a new migration")
	fmt.Println("  go run cmd/migration/main.go migrate [-dialect sqlite|postgres] [-db DSN]   - Apply pending migrations")
	fmt.Println("  go run cmd/migration/main.go version [-dialect sqlite|postgres] [-db DSN]   - Show the schema version")
	fmt.Println("  go run cmd/migration/main.go help                                           - Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  go run cmd/migration/main.go create -dialect postgres \"add party table\"")
	fmt.Println("  go run cmd/migration/main.go migrate -dialect postgres -db postgres://localhost/coinpurse")
}

// createMigration writes an empty sequential SQL migration. Migrations are embedded,
// so the binary has to be rebuilt to pick it up.
func createMigration(dir, description string) error {
	goose.SetSequential(true)
	if err := goose.Create(nil, dir, description, "sql"); err != nil {
		return fmt.Errorf("error creating migration: %w", err)
	}
	fmt.Println("Edit the new file in", dir, "to add your schema changes, then rebuild.")
	return nil
}

func withDB(dialect migrations.Dialect, dsn string, fn func(*sql.DB) error) error {
	driver, ok := drivers[dialect]
	if !ok {
		return fmt.Errorf("unknown dialect %q", dialect)
	}

	if dialect == migrations.SQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	return fn(db)
}
