package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kardzapp/kardz-backend/pkg/migrate"
)

func TestInitialSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE TABLE products",
		"CREATE TABLE bids",
		"CREATE TABLE orders",
		"CREATE TABLE event_participants",
		"REFERENCES products(id) ON DELETE CASCADE",
		"CONSTRAINT idx_event_participants_event_user UNIQUE (event_id, user_id)",
		"DROP TABLE IF EXISTS users",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
