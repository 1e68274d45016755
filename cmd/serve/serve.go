package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/currconv/cmd/common"
	"github.com/sig-0/currconv/cmd/env"
	"github.com/sig-0/currconv/server"
	"github.com/sig-0/currconv/storage/sqlite"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	common.Flags

	listenAddress string
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the conversions and rates read API",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	c.RegisterFlags(fs)

	fs.StringVar(
		&c.listenAddress,
		"listen",
		"",
		"the IP:PORT URL for the server (default from the config)",
	)
}

// exec executes the serve command
func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.Logger(os.Stdout)
	if err != nil {
		return err
	}

	cfg, err := c.Config()
	if err != nil {
		return err
	}

	if c.listenAddress != "" {
		cfg.ListenAddress = c.listenAddress
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

	logger.Info("DB ready", "path", cfg.DBPath)

	// Create the server instance
	s, err := server.New(
		sqlite.NewStorage(db),
		common.NewProvider(cfg, apiKey, logger),
		server.WithLogger(logger),
		server.WithConfig(cfg),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
