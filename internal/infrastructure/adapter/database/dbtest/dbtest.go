// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database/migration"
	loggeradapter "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Clock is a settable TimeProvider; it starts at a fixed UTC instant
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock at 2025-01-01 12:00:00 UTC
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the clock time elapsed since t
func (c *Clock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Until returns the clock time left until t
func (c *Clock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Sleep advances the clock instead of blocking
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t, converted to UTC
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Open returns a migrated in-memory database that is closed when the test ends.
// The pool holds a single connection so the database lives as long as the test.
func Open(t *testing.T, clock core.TimeProvider) *gorm.DB {
	t.Helper()
	return open(t, clock, "file::memory:", 1)
}

// OpenFile returns a migrated database file under t.TempDir that several
// connections use at once. Writers wait on each other for up to five seconds
// and a transaction that read a stale snapshot fails with "database is locked".
func OpenFile(t *testing.T, clock core.TimeProvider) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "daily-earn.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	return open(t, clock, dsn, MaxFileConns)
}

// MaxFileConns is the pool size of databases returned by OpenFile
const MaxFileConns = 8

func open(t *testing.T, clock core.TimeProvider, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: clock.Now,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.NewMigrationManager(db, loggeradapter.NewNoopLogger(), clock).MigrateAll(context.Background()))
	return db
}
