package db

import (
	"fmt"
	"strconv"
)

// RunMigrateCommand dispatches the 'migrate' subcommand against the
// database at dbPath. The caller handles the returned error; help
// output goes straight to stdout.
func RunMigrateCommand(args []string, dbPath string) error {
	if len(args) < 1 {
		PrintMigrateHelp()
		return fmt.Errorf("migrate: missing action")
	}
	action := args[0]
	if action == "help" {
		PrintMigrateHelp()
		return nil
	}

	database, err := openRaw(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	switch action {
	case "up":
		if err := database.MigrateUp(); err != nil {
			return err
		}
		return printVersion(database)

	case "down":
		if err := database.MigrateDown(); err != nil {
			return err
		}
		return printVersion(database)

	case "status":
		return printVersion(database)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("migrate: force needs a version number")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("migrate: invalid version %q", args[1])
		}
		if err := database.MigrateForce(version); err != nil {
			return err
		}
		return printVersion(database)

	default:
		PrintMigrateHelp()
		return fmt.Errorf("migrate: unknown action %q", action)
	}
}

func printVersion(database *DB) error {
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d (dirty: %v)\n", version, dirty)
	if dirty {
		fmt.Println("the last migration failed mid-way; inspect the database, then recover with 'migrate force <version>'")
	}
	return nil
}

// PrintMigrateHelp displays the help for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println("Database migration commands")
	fmt.Println()
	fmt.Println("Usage: warpfield migrate <action>")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  up           Apply all pending migrations")
	fmt.Println("  down         Roll back one migration")
	fmt.Println("  status       Show the current schema version")
	fmt.Println("  force <N>    Overwrite the schema version (recovery only)")
	fmt.Println("  help         Show this help message")
}
