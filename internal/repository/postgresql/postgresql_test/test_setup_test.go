package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a migrated connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("%v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row and resets identities.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"refresh_tokens", "users", "companies"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
