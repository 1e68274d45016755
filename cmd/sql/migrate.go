package sql

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/currconv/cmd/common"
	"github.com/sig-0/currconv/cmd/env"
	"github.com/sig-0/currconv/storage/sqlite"
)

// migrateCfg wraps the migrate configuration
type migrateCfg struct {
	rootCfg *sqlCfg
}

// newMigrateCmd creates the migrate command
func newMigrateCmd(rootCfg *sqlCfg) *ffcli.Command {
	cfg := &migrateCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	rootCfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "migrate",
		ShortUsage: "sql migrate [flags] [001_conversions.sql ...]",
		LongHelp:   "Runs the conversions DB migrations. Runs all embedded migrations if none are given",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *migrateCfg) exec(ctx context.Context, args []string) error {
	logger, err := c.rootCfg.Logger(os.Stdout)
	if err != nil {
		return err
	}

	cfg, err := c.rootCfg.Config()
	if err != nil {
		return err
	}

	names := args

	// Default to every embedded migration
	if len(names) == 0 {
		if names, err = sqlite.SchemaFiles(); err != nil {
			return fmt.Errorf("unable to list migrations: %w", err)
		}
	}

	// Open the DB
	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}

	defer common.CloseDB(db, logger)

	for _, name := range names {
		fmt.Printf("Running migration %s...\n", name)

		if err := sqlite.ApplySchema(ctx, db, name); err != nil {
			return err
		}

		fmt.Printf("Migration %q complete\n", name)
	}

	fmt.Println("All migrations complete!")

	return nil
}
