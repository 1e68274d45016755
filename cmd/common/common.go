package common

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sig-0/currconv/cmd/env"
	"github.com/sig-0/currconv/config"
	"github.com/sig-0/currconv/provider/exchangerate"
	"github.com/sig-0/currconv/storage/sqlite"
)

// Flags wraps the flags shared by every command
type Flags struct {
	configPath string
	dbPath     string
	apiURL     string
	logLevel   string
}

// RegisterFlags registers the shared flags on the given flag set
func (f *Flags) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&f.configPath,
		"config",
		"",
		"the path to the TOML configuration, if any",
	)

	fs.StringVar(
		&f.dbPath,
		"db",
		"",
		fmt.Sprintf("the path to the SQLite conversions file (default %q)", config.DefaultDBPath),
	)

	fs.StringVar(
		&f.apiURL,
		"api-url",
		"",
		fmt.Sprintf("the exchangerate-api v6 base URL (default %q)", config.DefaultAPIURL),
	)

	fs.StringVar(
		&f.logLevel,
		"log-level",
		slog.LevelWarn.String(),
		"the log level (debug, info, warn, error)",
	)
}

// Config resolves and validates the configuration: defaults, then the TOML file, then flags
func (f *Flags) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()

	// Read the configuration, if any
	if f.configPath != "" {
		fileCfg, err := config.Read(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}

		cfg = fileCfg
	}

	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}

	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}

	if err := config.ValidateClientConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	return cfg, nil
}

// Logger creates a text logger at the configured level
func (f *Flags) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", f.logLevel, err)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})), nil
}

// LoadAPIKey loads .env and returns the exchangerate-api key
func LoadAPIKey(logger *slog.Logger) (string, error) {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Debug("unable to load .env file", "err", err)
	}

	key := os.Getenv(env.APIKey)
	if key == "" {
		return "", fmt.Errorf("missing %s", env.APIKey)
	}

	return key, nil
}

// NewProvider creates the exchangerate-api client from the configuration
func NewProvider(cfg *config.Config, apiKey string, logger *slog.Logger) *exchangerate.Client {
	return exchangerate.NewClient(
		apiKey,
		exchangerate.WithBaseURL(cfg.APIURL),
		exchangerate.WithTimeout(cfg.HTTPTimeout()),
		exchangerate.WithCache(exchangerate.NewCache(cfg.CacheTTL())),
		exchangerate.WithHistoryDays(cfg.HistoryDays),
		exchangerate.WithLogger(logger),
	)
}

// OpenDB opens the conversions file and applies the embedded schema
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err = sqlite.Migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to migrate DB: %w", err)
	}

	return db, nil
}

// CloseDB closes the DB, logging any failure
func CloseDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error(
			"unable to gracefully close DB",
			"err", err,
		)
	}
}
