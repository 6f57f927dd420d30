package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/landscape/backend/internal/infrastructure/logger"
	"github.com/landscape/backend/internal/infrastructure/migration"
	"github.com/landscape/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

func main() {
	dir := flag.String("path", "", "migrations directory on disk (default: the migrations compiled into the binary)")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log := logger.New(logger.Config{Level: *level, Format: "console", Output: "stderr"})
	defer func() {
		_ = log.Sync()
	}()

	if err := run(log, *dir, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			log.Error("migrate failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func run(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	var source fs.FS = migrations.FS
	if dir != "" {
		source = os.DirFS(dir)
	}

	switch cmd {
	case "create":
		return create(log, dir, rest)
	case "list":
		names, err := migration.ListMigrations(source)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	m, closeDB, err := open(log, source)
	if err != nil {
		return err
	}
	defer closeDB()

	switch cmd {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(rest)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(rest)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative, got %d", n)
		}
		return m.GoTo(uint(n))
	case "force":
		n, err := intArg(rest)
		if err != nil {
			return err
		}
		log.Warn("forcing schema version; the dirty flag is cleared without running SQL", zap.Int("version", n))
		return m.Force(n)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func open(log *zap.Logger, source fs.FS) (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	m, err := migration.NewEmbedded(db, source, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		_ = m.Close()
		_ = db.Close()
	}, nil
}

func create(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create needs a name", errUsage)
	}
	if dir == "" {
		dir = "migrations"
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("created migration",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing numeric argument", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Landscape schema migrations

Usage:
  migrate [-path DIR] [-log-level LEVEL] <command> [args]

Commands:
  up                    apply all pending migrations
  down                  roll back every migration
  step <n>              apply n migrations; negative n rolls back
  goto <version>        migrate up or down to a version
  version               print the current version and dirty flag
  force <version>       set the version without running SQL
  create <name> [desc]  write a new up/down file pair into -path (default ./migrations)
  list                  list the migrations in the source

Connection settings come from config.toml and LANDSCAPE_DATABASE_* variables.
`)
}
