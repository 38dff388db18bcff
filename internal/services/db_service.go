package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBService handles database connection and lifecycle management
type DBService interface {
	GetDB() *gorm.DB
	Close() error
}

type dbService struct {
	db *gorm.DB
}

// NewDBService opens the history database. DSNs starting with postgres:// or
// postgresql:// use PostgreSQL, anything else is treated as a SQLite path.
func NewDBService(dsn string) (DBService, error) {
	if isPostgresDSN(dsn) {
		return NewPostgresDBService(dsn)
	}
	return NewSqliteDBService(dsn)
}

// NewSqliteDBService creates a new DBService with SQLite connection
func NewSqliteDBService(dbPath string) (DBService, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return openDBService(sqlite.Open(dbPath))
}

// NewPostgresDBService creates a new DBService with PostgreSQL connection
func NewPostgresDBService(dsn string) (DBService, error) {
	return openDBService(postgres.Open(dsn))
}

// NewDBServiceFromDB wraps an existing connection and migrates it.
func NewDBServiceFromDB(db *gorm.DB) (DBService, error) {
	service := &dbService{db: db}
	if err := service.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return service, nil
}

func openDBService(dialector gorm.Dialector) (DBService, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewDBServiceFromDB(db)
}

// newGormLogger reports errors and slow queries to the standard logger's
// current output, so it stays silent unless logging is enabled.
func newGormLogger() logger.Interface {
	return logger.New(log.New(log.Writer(), "gorm: ", log.LstdFlags), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Error,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

// GetDB returns the underlying GORM database instance
func (s *dbService) GetDB() *gorm.DB {
	return s.db
}

// migrate runs database migrations
func (s *dbService) migrate() error {
	return s.db.AutoMigrate(
		&models.DeploymentRecord{},
	)
}

// Close closes the database connection
func (s *dbService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
