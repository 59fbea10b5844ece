package db

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/landtrust/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+["` + "`" + `\[]?(\w+)["` + "`" + `\]]?\s+ADD\s+COLUMN\s+["` + "`" + `\[]?(\w+)`)
)

// migrationChecks run inside the migration transaction once its statements succeed.
var migrationChecks = map[string]func(ctx context.Context, tx *gorm.DB) error{
	"002": verifyListingSeed,
}

type schemaMigration struct {
	Version    string
	Order      int
	Name       string
	Statements []string
}

type migrationRunner struct {
	database *gorm.DB
	logger   *zap.Logger
}

func applyEmbeddedMigrations(database *gorm.DB, logger *zap.Logger) error {
	runner := migrationRunner{database: database, logger: logger.Named("migrations")}
	return runner.run(context.Background())
}

func (runner migrationRunner) run(ctx context.Context) error {
	if err := runner.database.WithContext(ctx).Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}

	var applied []string
	if err := runner.database.WithContext(ctx).Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("load applied migration versions: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	for _, migration := range pending {
		if done[migration.Version] {
			continue
		}
		if err := runner.apply(ctx, migration); err != nil {
			return err
		}
		runner.logger.Info("applied migration",
			zap.String("version", migration.Version),
			zap.String("name", migration.Name),
			zap.Int("statements", len(migration.Statements)),
		)
	}
	return nil
}

func (runner migrationRunner) apply(ctx context.Context, migration schemaMigration) error {
	return runner.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, statement := range migration.Statements {
			if table, column, ok := parseAddColumn(statement); ok {
				exists, err := columnExists(tx, table, column)
				if err != nil {
					return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
				}
				if exists {
					runner.logger.Info("column already present, skipping",
						zap.String("migration", migration.Name),
						zap.String("table", table),
						zap.String("column", column),
					)
					continue
				}
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
			}
		}

		if check, ok := migrationChecks[migration.Version]; ok {
			if err := check(ctx, tx); err != nil {
				return fmt.Errorf("verify migration %s: %w", migration.Name, err)
			}
		}

		return tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, migration.Version, migration.Name).Error
	})
}

func loadEmbeddedMigrations() ([]schemaMigration, error) {
	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	byVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		matches := migrationNamePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || matches == nil {
			continue
		}
		version := matches[1]
		if previous, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, entry.Name())
		}
		byVersion[version] = entry.Name()

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(embeddedmigrations.Files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		statements := splitSQLStatements(string(body))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no SQL statements", entry.Name())
		}

		migrations = append(migrations, schemaMigration{
			Version:    version,
			Order:      order,
			Name:       entry.Name(),
			Statements: statements,
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Order < migrations[j].Order
	})
	return migrations, nil
}

// splitSQLStatements splits on semicolons; migrations must not put ';' inside string literals.
func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func parseAddColumn(statement string) (table string, column string, ok bool) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return "", "", false
	}
	return matches[1], matches[2], true
}

func columnExists(database *gorm.DB, table string, column string) (bool, error) {
	var count int64
	if err := database.Raw(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ? COLLATE NOCASE`,
		table,
		column,
	).Scan(&count).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	return count > 0, nil
}

// verifyListingSeed fails the listing migration when INSERT OR IGNORE left any of
// the catalog houses missing.
func verifyListingSeed(ctx context.Context, tx *gorm.DB) error {
	count, err := NewPropertyRepository(tx).CountByIDs(ctx, SeededListingIDs)
	if err != nil {
		return fmt.Errorf("count seeded listings: %w", err)
	}
	if count != int64(len(SeededListingIDs)) {
		return fmt.Errorf("expected %d seeded listings, found %d", len(SeededListingIDs), count)
	}
	return nil
}
