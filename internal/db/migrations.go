package db

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	embeddedmigrations "github.com/terraincognita07/cycletrack/migrations"
)

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// schemaMigration is one row of the schema_migrations bookkeeping table.
type schemaMigration struct {
	Version   string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	version    string
	order      int
	name       string
	statements []string
}

type migrator struct {
	database *gorm.DB
	files    fs.FS
	logger   *zap.Logger
}

func newMigrator(database *gorm.DB, files fs.FS, logger *zap.Logger) *migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &migrator{database: database, files: files, logger: logger}
}

// Migrate applies the embedded migrations that are not recorded in schema_migrations and
// returns the names of the ones it applied, in order.
func Migrate(database *gorm.DB, logger *zap.Logger) ([]string, error) {
	return newMigrator(database, embeddedmigrations.Files, logger).apply()
}

// PendingMigrations lists the embedded migrations Migrate would apply, without applying them.
func PendingMigrations(database *gorm.DB) ([]string, error) {
	pending, err := newMigrator(database, embeddedmigrations.Files, nil).pending()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pending))
	for _, file := range pending {
		names = append(names, file.name)
	}
	return names, nil
}

func (m *migrator) apply() ([]string, error) {
	pending, err := m.pending()
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, file := range pending {
		if err := m.applyFile(file); err != nil {
			return applied, err
		}
		m.logger.Info("migration applied", zap.String("name", file.name))
		applied = append(applied, file.name)
	}
	return applied, nil
}

func (m *migrator) pending() ([]migrationFile, error) {
	if err := m.database.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}
	files, err := m.load()
	if err != nil {
		return nil, err
	}

	var recorded []string
	if err := m.database.Model(&schemaMigration{}).Pluck("version", &recorded).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	done := make(map[string]bool, len(recorded))
	for _, version := range recorded {
		done[version] = true
	}

	pending := make([]migrationFile, 0, len(files))
	for _, file := range files {
		if !done[file.version] {
			pending = append(pending, file)
		}
	}
	return pending, nil
}

func (m *migrator) load() ([]migrationFile, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(entries))
	owners := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name())
		matches := migrationFilePattern.FindStringSubmatch(name)
		if entry.IsDir() || matches == nil {
			continue
		}

		version := matches[1]
		if owner, taken := owners[version]; taken {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, owner, name)
		}
		owners[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		content, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(content))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no SQL statements", name)
		}

		files = append(files, migrationFile{version: version, order: order, name: name, statements: statements})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].order != files[j].order {
			return files[i].order < files[j].order
		}
		return files[i].name < files[j].name
	})
	return files, nil
}

// applyFile runs one migration and records it in a single transaction. ADD COLUMN
// statements for columns that already exist are skipped so partially upgraded databases
// can still move forward.
func (m *migrator) applyFile(file migrationFile) error {
	return m.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range file.statements {
			if table, column, ok := parseAddColumn(statement); ok {
				exists, err := tableColumnExists(tx, table, column)
				if err != nil {
					return fmt.Errorf("inspect migration %s: %w", file.name, err)
				}
				if exists {
					m.logger.Debug("column already present", zap.String("table", table), zap.String("column", column))
					continue
				}
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", file.name, statement, err)
			}
		}

		record := schemaMigration{Version: file.version, Name: file.name, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", file.name, err)
		}
		return nil
	})
}

func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func parseAddColumn(statement string) (string, string, bool) {
	matches := addColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if matches == nil {
		return "", "", false
	}
	return unquoteIdentifier(matches[1]), unquoteIdentifier(matches[2]), true
}

type pragmaTableColumn struct {
	Name string `gorm:"column:name"`
}

func tableColumnExists(database *gorm.DB, table string, column string) (bool, error) {
	var columns []pragmaTableColumn
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, candidate := range columns {
		if strings.EqualFold(strings.TrimSpace(candidate.Name), column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
