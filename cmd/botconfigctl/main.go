// botconfigctl is the operator tool for the channel configuration
// repository. It migrates the schema and manages channel credentials.
//
// Usage:
//
//	botconfigctl [flags] migrate
//	botconfigctl [flags] create-channel --name <token> --password <pw>
//	botconfigctl [flags] show-channel   --name <token>
//	botconfigctl [flags] verify-channel --name <token> --password <pw>
//
// Settings come from the environment (see internal/config); a .env file is
// loaded first when present. The password may also be supplied through
// BOTCONFIG_PASSWORD.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/config"
	"github.com/tbourn/go-botconfig-backend/internal/mutex"
	"github.com/tbourn/go-botconfig-backend/internal/observability"
	"github.com/tbourn/go-botconfig-backend/internal/repo"
	"github.com/tbourn/go-botconfig-backend/internal/secure"
	"github.com/tbourn/go-botconfig-backend/internal/services"
	"github.com/tbourn/go-botconfig-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// errUsage marks invocation mistakes.
var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error onto a process status by its kind.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, services.ErrValidation):
		return 2
	case errors.Is(err, services.ErrNotFound):
		return 3
	case errors.Is(err, services.ErrConflict):
		return 4
	default:
		return 1
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("botconfigctl", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	name := flags.StringP("name", "n", "", "channel token")
	password := flags.StringP("password", "p", "", "channel password (or BOTCONFIG_PASSWORD)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("%w: expected exactly one command (migrate, create-channel, show-channel, verify-channel)", errUsage)
	}
	cmd := flags.Arg(0)
	switch cmd {
	case "migrate", "create-channel", "show-channel", "verify-channel":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := sysutil.NewLogger(os.Stderr, cfg.LogPretty)
	sysutil.SetLogLevel(cfg.LogLevel)

	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version,
		attribute.String("botconfig.lock.backend", cfg.Lock.Backend))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath, repo.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		Trace:        cfg.DBTrace || cfg.OTEL.Enabled,
		Silent:       zerolog.GlobalLevel() > zerolog.DebugLevel,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDB(db, logger)

	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cmd == "migrate" {
		logger.Info().Str("db", cfg.DBPath).Msg("schema up to date")
		return nil
	}

	r := services.NewRepository(db, services.Options{
		Locker: newLocker(cfg.Lock),
		Hasher: secure.NewHasher(cfg.Hash.Pepper, cfg.Hash.Salt, secure.Params{
			Time:      cfg.Hash.Time,
			MemoryKiB: cfg.Hash.MemoryKiB,
			Threads:   cfg.Hash.Threads,
		}),
		Logger: &logger,
	})

	if *name == "" {
		return fmt.Errorf("%w: --name is required", errUsage)
	}
	pw := sysutil.FirstNonEmpty(*password, os.Getenv("BOTCONFIG_PASSWORD"))

	switch cmd {
	case "create-channel":
		if pw == "" {
			return fmt.Errorf("%w: --password is required", errUsage)
		}
		c, err := r.Channels.Create(ctx, *name, pw)
		if err != nil {
			return err
		}
		logger.Info().Str("channel", c.Token).Msg("channel created")
		return writeJSON(stdout, c)

	case "show-channel":
		c, err := r.Channels.GetByToken(ctx, *name)
		if err != nil {
			return err
		}
		st, err := r.Channels.Stats(ctx, *name)
		if err != nil {
			return err
		}
		return writeJSON(stdout, channelReport{Channel: c, Stats: newStatsView(st)})

	default: // verify-channel
		if _, err := r.Channels.Authenticate(ctx, *name, pw); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout, "ok")
		return err
	}
}

func newLocker(cfg config.LockConfig) mutex.Locker {
	if cfg.Backend == config.LockRedis {
		return mutex.NewRedis(cfg.RedisAddr, cfg.Key, cfg.Expiry)
	}
	return mutex.NewLocal()
}

func closeDB(db *gorm.DB, logger zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn().Err(err).Msg("close database")
	}
}

type statsView struct {
	Commands             int64      `json:"commands"`
	Aliases              int64      `json:"aliases"`
	Repeats              int64      `json:"repeats"`
	Quotes               int64      `json:"quotes"`
	Trusts               int64      `json:"trusts"`
	Socials              int64      `json:"socials"`
	LastCommandUpdatedAt *time.Time `json:"lastCommandUpdatedAt,omitempty"`
}

func newStatsView(st repo.ChannelStats) statsView {
	return statsView{
		Commands:             st.Commands,
		Aliases:              st.Aliases,
		Repeats:              st.Repeats,
		Quotes:               st.Quotes,
		Trusts:               st.Trusts,
		Socials:              st.Socials,
		LastCommandUpdatedAt: st.LastCommandUpdatedAt,
	}
}

type channelReport struct {
	Channel any       `json:"channel"`
	Stats   statsView `json:"stats"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
