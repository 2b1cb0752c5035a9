// Command agencyctl runs one-off maintenance tasks against the agency database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/config"
	"github.com/octobees/agency-web/internal/database"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/logx"
	"github.com/octobees/agency-web/internal/repository"
	"github.com/octobees/agency-web/internal/service"
)

const usage = `usage: agencyctl <command> [flags]

commands:
  migrate                                   apply the database schema
  sync-categories -country USA              refresh business categories
  sync-directories -country USA             refresh citation directories
  create-operator -email -password [-role]  provision a staff account
  create-client -name "Harbour Dental"      register a client locations can belong to
`

var errUsage = errors.New("invalid usage")

// missingConfigError lists required environment keys that are not set.
type missingConfigError struct {
	keys []string
}

func (e *missingConfigError) Error() string {
	return "missing configuration: " + strings.Join(e.keys, ", ")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logx.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		logger.Error("agencyctl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]

	switch command {
	case "migrate":
		return withDatabase(ctx, cfg, func(deps deps) error {
			if err := database.Migrate(ctx, deps.pool); err != nil {
				return err
			}
			fmt.Fprintln(out, "schema applied")
			return nil
		})

	case "sync-categories", "sync-directories":
		flags := flag.NewFlagSet(command, flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		country := flags.String("country", "", "ISO-3 country code")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		if missing := cfg.Missing(config.KeyDatabaseURL, config.KeyBrightLocalAPIKey); len(missing) > 0 {
			return &missingConfigError{keys: missing}
		}
		return withDatabase(ctx, cfg, func(deps deps) error {
			client, err := brightlocal.NewClient(brightlocal.Config{BaseURL: cfg.BrightLocalBaseURL, APIKey: cfg.BrightLocalAPIKey}, nil)
			if err != nil {
				return err
			}
			listings := service.NewListingsService(client, deps.categories, deps.directories, deps.locations, deps.clients)
			if command == "sync-categories" {
				categories, err := listings.GetCategories(ctx, *country)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "synced %d categories for %s\n", len(categories), strings.ToUpper(*country))
				return nil
			}
			directories, err := listings.SyncDirectories(ctx, *country)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "synced %d directories for %s\n", len(directories), strings.ToUpper(*country))
			return nil
		})

	case "create-operator":
		flags := flag.NewFlagSet(command, flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		var req dto.CreateOperatorRequest
		flags.StringVar(&req.Email, "email", "", "operator email")
		flags.StringVar(&req.Password, "password", "", "operator password")
		flags.StringVar(&req.Role, "role", service.RoleOperator, "operator or admin")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return withDatabase(ctx, cfg, func(deps deps) error {
			op, err := service.NewOperatorService(deps.operators).CreateOperator(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "created %s %s (%s)\n", op.Role, op.Email, op.ID)
			return nil
		})

	case "create-client":
		flags := flag.NewFlagSet(command, flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		name := flags.String("name", "", "client display name")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		if strings.TrimSpace(*name) == "" {
			return fmt.Errorf("%w: -name is required", errUsage)
		}
		return withDatabase(ctx, cfg, func(deps deps) error {
			client, err := deps.clients.Create(ctx, strings.TrimSpace(*name))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "created client %s (%s)\n", client.Name, client.ID)
			return nil
		})

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

type deps struct {
	pool        *pgxpool.Pool
	categories  repository.CategoriesRepository
	directories repository.DirectoriesRepository
	locations   repository.LocationsRepository
	operators   repository.OperatorsRepository
	clients     repository.ClientsRepository
}

func withDatabase(ctx context.Context, cfg *config.Config, fn func(deps) error) error {
	if missing := cfg.Missing(config.KeyDatabaseURL); len(missing) > 0 {
		return &missingConfigError{keys: missing}
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(deps{
		pool:        pool,
		categories:  repository.NewPGXCategoriesRepository(pool),
		directories: repository.NewPGXDirectoriesRepository(pool),
		locations:   repository.NewPGXLocationsRepository(pool),
		operators:   repository.NewPGXOperatorsRepository(pool),
		clients:     repository.NewPGXClientsRepository(pool),
	})
}
