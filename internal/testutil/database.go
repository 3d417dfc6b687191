package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/db"
)

// SetupTestDB connects to the local medicalcontrol_test database and makes
// sure the schema exists. Override the connection string with
// TEST_DATABASE_URL when the defaults don't match the machine.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=medicalcontrol dbname=medicalcontrol_test sslmode=disable"
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}
	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to ensure test schema: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

// CleanupTestDB removes all rows between tests. Consultations go first via
// the cascade.
func CleanupTestDB(t *testing.T, conn *sql.DB) {
	t.Helper()

	if _, err := conn.Exec("TRUNCATE TABLE medicalcontrol.patients RESTART IDENTITY CASCADE"); err != nil {
		t.Logf("Warning: Failed to clean up patients: %v", err)
	}
}
