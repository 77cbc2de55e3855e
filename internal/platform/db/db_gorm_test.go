package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"stock_chart/internal/feature/symbollist/domain/entity"
)

// TestBuildDSN_SQLite verifies that sqlite uses the file path as DSN.
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	dsn := BuildDSN(Config{Driver: DriverSQLite, Path: "/tmp/watchlist.db", Host: "ignored"})
	if dsn != "/tmp/watchlist.db" {
		t.Errorf("expected DSN %q, got %q", "/tmp/watchlist.db", dsn)
	}
}

// TestBuildDSN_Postgres verifies the TCP key/value DSN.
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:   DriverPostgres,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
	}

	expected := "host=localhost user=testuser password=testpass dbname=testdb sslmode=disable port=5432"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQLTakesPrecedence verifies the unix socket wins over host and port.
func TestBuildDSN_CloudSQLTakesPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:       DriverPostgres,
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		InstanceName: "project:region:instance",
		SSLMode:      "disable",
	}

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry returns the DB without retrying.
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

// TestConnectWithRetry_RetriesOnFailure retries until the opener succeeds.
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel: shortens the package retry interval.
	prev := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = prev })

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", time.Second, opener)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries returns the last error once the deadline passes.
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", -time.Second, opener)
	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount != 1 {
		t.Errorf("expected exactly one attempt, got %d", attemptCount)
	}
}

func TestOpenerFor_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := OpenerFor("mysql"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

// TestOpen_SQLiteMigrates opens an in-memory sqlite database and creates the watchlist table.
func TestOpen_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	db, err := Open(Config{Driver: DriverSQLite, Path: ":memory:", Migrate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable(&entity.Symbol{}) {
		t.Error("expected symbols table to exist")
	}
}

// TestLoadConfigFromEnv reads every setting from the environment.
func TestLoadConfigFromEnv(t *testing.T) {
	// Not parallel: modifies environment variables.
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_PATH", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg := LoadConfigFromEnv()

	if cfg.Driver != DriverPostgres {
		t.Errorf("expected Driver %q, got %q", DriverPostgres, cfg.Driver)
	}
	if cfg.User != "envuser" || cfg.Password != "envpass" || cfg.Name != "envdb" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.Host != "envhost" || cfg.Port != "5433" {
		t.Errorf("unexpected address: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.Path != defaultSQLitePath || cfg.SSLMode != "disable" {
		t.Errorf("expected defaults, got path=%q sslmode=%q", cfg.Path, cfg.SSLMode)
	}
	if cfg.Migrate {
		t.Error("expected migrations to be disabled")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("RUN_MIGRATIONS", "")

	cfg := LoadConfigFromEnv()
	if cfg.Driver != DriverSQLite || cfg.Path != defaultSQLitePath || !cfg.Migrate {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
