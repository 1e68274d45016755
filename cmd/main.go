package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/currconv/cmd/common"
	"github.com/sig-0/currconv/cmd/env"
	"github.com/sig-0/currconv/cmd/history"
	"github.com/sig-0/currconv/cmd/serve"
	"github.com/sig-0/currconv/cmd/sql"
	"github.com/sig-0/currconv/converter"
	"github.com/sig-0/currconv/storage/sqlite"
)

// rootCfg wraps the interactive converter configuration
type rootCfg struct {
	common.Flags
}

func main() {
	cfg := &rootCfg{}

	fs := flag.NewFlagSet("root", flag.ExitOnError)
	cfg.RegisterFlags(fs)

	// Create the root command
	cmd := &ffcli.Command{
		ShortUsage: "[flags] | <sub-command> [flags] [<arg>...]",
		LongHelp:   "Runs the interactive currency converter",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		sql.NewSQLCmd(),
		history.NewHistoryCmd(),
		serve.NewServeCmd(),
	}

	if err := cmd.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}

// exec runs the interactive conversion loop
func (c *rootCfg) exec(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return flag.ErrHelp
	}

	logger, err := c.Logger(os.Stdout)
	if err != nil {
		return err
	}

	cfg, err := c.Config()
	if err != nil {
		return err
	}

	apiKey, err := common.LoadAPIKey(logger)
	if err != nil {
		return err
	}

	db, err := common.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}

	defer common.CloseDB(db, logger)

	conv := converter.New(
		common.NewProvider(cfg, apiKey, logger),
		sqlite.NewStorage(db),
		converter.WithLogger(logger),
	)

	return conv.Run(ctx)
}
