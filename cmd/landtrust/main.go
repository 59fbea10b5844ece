package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/pflag"
	"github.com/terraincognita07/landtrust/internal/api"
	"github.com/terraincognita07/landtrust/internal/cli"
	"github.com/terraincognita07/landtrust/internal/config"
	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/logging"
	"github.com/terraincognita07/landtrust/internal/metrics"
	"go.uber.org/zap"
)

const (
	commandServe         = "serve"
	commandResetPassword = "reset-password"
	commandGrantRole     = "grant-role"
	commandCreateAdmin   = "create-admin"

	shutdownTimeout = 10 * time.Second
)

const usage = `usage: landtrust [command] [flags]

commands:
  serve            run the HTTP API (default)
  reset-password   --email <email>
  grant-role       --email <email> --role <admin|applicant|homeowner>
  create-admin     --email <email> [--name <full name>]
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "landtrust: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout io.Writer) error {
	command, rest := splitCommand(args)
	switch command {
	case commandServe:
		return runServe(rest)
	case commandResetPassword, commandGrantRole, commandCreateAdmin:
		return runMaintenance(command, rest, stdin, stdout)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

// splitCommand treats a leading flag or an empty argument list as "serve".
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return commandServe, args
	}
	return args[0], args[1:]
}

type serveFlags struct {
	port   string
	dbPath string
}

func parseServeFlags(args []string) (serveFlags, error) {
	var parsed serveFlags
	flags := pflag.NewFlagSet(commandServe, pflag.ContinueOnError)
	flags.StringVar(&parsed.port, "port", "", "listen port (overrides PORT)")
	flags.StringVar(&parsed.dbPath, "db", "", "sqlite database path (overrides DB_PATH)")
	if err := flags.Parse(args); err != nil {
		return serveFlags{}, err
	}
	return parsed, nil
}

func runServe(args []string) error {
	overrides, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if overrides.port != "" {
		cfg.Port = overrides.port
	}
	if overrides.dbPath != "" {
		cfg.DBPath = overrides.dbPath
	}
	time.Local = cfg.Location

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	collectors := metrics.New()
	handler, err := api.NewHandler(database, api.HandlerOptions{
		SecretKey:            cfg.SecretKey,
		CookieSecure:         cfg.CookieSecure,
		RequestTimeout:       cfg.RequestTimeout,
		RoleGrantAttempts:    cfg.RoleGrantAttempts,
		StrictStepValidation: cfg.StrictStepValidation,
		Logger:               logger,
		Metrics:              collectors,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler, logger, collectors)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("landtrust listening", cfg.LogFields()...)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info("landtrust stopped")
	return nil
}

func newApp(handler *api.Handler, logger *zap.Logger, collectors *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "LandTrust",
		DisableStartupMessage: true,
		ErrorHandler:          jsonErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.RequestLogger(logger))
	app.Use(collectors.Middleware())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func jsonErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		} else {
			logger.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
		}
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}

type maintenanceFlags struct {
	email    string
	role     string
	fullName string
	dbPath   string
}

func parseMaintenanceFlags(command string, args []string) (maintenanceFlags, error) {
	var parsed maintenanceFlags
	flags := pflag.NewFlagSet(command, pflag.ContinueOnError)
	flags.StringVar(&parsed.email, "email", "", "account email")
	flags.StringVar(&parsed.dbPath, "db", "", "sqlite database path (overrides DB_PATH)")
	switch command {
	case commandGrantRole:
		flags.StringVar(&parsed.role, "role", "", "role to grant")
	case commandCreateAdmin:
		flags.StringVar(&parsed.fullName, "name", "", "full name")
	}
	if err := flags.Parse(args); err != nil {
		return maintenanceFlags{}, err
	}

	if strings.TrimSpace(parsed.email) == "" {
		return maintenanceFlags{}, errors.New("--email is required")
	}
	if command == commandGrantRole && strings.TrimSpace(parsed.role) == "" {
		return maintenanceFlags{}, errors.New("--role is required")
	}
	return parsed, nil
}

func runMaintenance(command string, args []string, stdin *os.File, stdout io.Writer) error {
	parsed, err := parseMaintenanceFlags(command, args)
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	dbPath := parsed.dbPath
	if dbPath == "" {
		dbPath = config.DBPath()
	}

	database, err := db.OpenSQLite(dbPath, nil)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	repos := db.NewRepositories(database)
	ctx := context.Background()

	switch command {
	case commandResetPassword:
		return cli.RunResetPasswordCommand(ctx, repos, parsed.email, stdout)
	case commandGrantRole:
		return cli.RunGrantRoleCommand(ctx, repos, parsed.email, parsed.role, stdout)
	default:
		return cli.RunCreateAdminCommand(ctx, repos, parsed.email, parsed.fullName, stdin, stdout)
	}
}
