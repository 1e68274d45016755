package history

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/currconv/cmd/common"
	"github.com/sig-0/currconv/cmd/env"
	"github.com/sig-0/currconv/converter"
	"github.com/sig-0/currconv/storage/sqlite"
)

// historyCfg wraps the history configuration
type historyCfg struct {
	common.Flags
}

// NewHistoryCmd creates the history subcommand
func NewHistoryCmd() *ffcli.Command {
	cfg := &historyCfg{}

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "history",
		ShortUsage: "history [flags]",
		LongHelp:   "Prints the stored conversions, newest first",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *historyCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.Logger(os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := c.Config()
	if err != nil {
		return err
	}

	db, err := common.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}

	defer common.CloseDB(db, logger)

	items, err := sqlite.NewStorage(db).ListConversions(ctx)
	if err != nil {
		return fmt.Errorf("unable to list conversions: %w", err)
	}

	converter.WriteHistory(os.Stdout, items)

	return nil
}
