// Package pgtest starts a throwaway PostgreSQL for integration tests and migrates
// the service schema into it.
package pgtest

import (
	"context"
	"time"

	"dispatch/internal/adapters/out/postgres"

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is a migrated container database.
type Database struct {
	DB        *gorm.DB
	container *tcpostgres.PostgresContainer
}

func Start(ctx context.Context) (*Database, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start postgres container")
	}
	d := &Database{container: container}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return d, errors.Wrap(err, "container dsn")
	}
	d.DB, err = gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return d, errors.Wrap(err, "connect")
	}
	return d, postgres.Migrate(ctx, d.DB)
}

// Truncate empties every table.
func (d *Database) Truncate() error {
	return d.DB.Exec(`TRUNCATE TABLE orders, line_items, routes, route_stops, customers, vendors,
		drivers, participant_orders, addresses, settings CASCADE`).Error
}

func (d *Database) Stop(ctx context.Context) error {
	if d == nil || d.container == nil {
		return nil
	}
	return d.container.Terminate(ctx)
}
