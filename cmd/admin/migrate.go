package main

import (
	"fmt"
	"path/filepath"

	"github.com/yigit/projectdesk/internal/app/migrations"
	"github.com/yigit/projectdesk/internal/config"
)

// migrate reports the schema state. The work itself happens when main opens
// the store: pending SQL files are applied and MongoDB indexes are created.
func (cli *commandLine) migrate() error {
	if cli.storage != config.DriverPostgres {
		fmt.Fprintf(cli.out, "Storage %q is up to date.\n", cli.storage)
		return nil
	}

	files, err := migrations.ListMigrationFiles(cli.migrationsDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(cli.out, "applied %s (%s)\n", migrations.Version(f), filepath.Base(f))
	}
	fmt.Fprintf(cli.out, "Storage %q is up to date.\n", cli.storage)
	return nil
}
