package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"m-cosmetics/internal/config"
)

const migrationsDir = "../../migrations"

func TestMigrationFilesExist(t *testing.T) {
	// Check if migrations directory exists
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_products_table.sql",
		"00003_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(string(content), directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestUsersTableEnforcesUniqueness(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00001_create_users_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read users migration: %v", err)
	}

	contentStr := string(content)
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"DROP TABLE IF EXISTS users",
		"CONSTRAINT users_username_key UNIQUE (username)",
		"CONSTRAINT users_email_key UNIQUE (email)",
		"is_staff BOOLEAN",
		"is_superuser BOOLEAN",
		"password_hash VARCHAR",
	} {
		if !strings.Contains(contentStr, want) {
			t.Errorf("Users migration missing %q", want)
		}
	}
}

func TestProductsTableHasRequiredColumns(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00002_create_products_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)
	for _, column := range []string{
		"id BIGSERIAL PRIMARY KEY",
		"name VARCHAR(200)",
		"description TEXT",
		"price NUMERIC(10, 2)",
		"CHECK (price >= 0)",
		"image_url VARCHAR(500)",
		"in_stock BOOLEAN",
		"created_at TIMESTAMPTZ",
	} {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required column definition: %s", column)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "shop",
		Password: "p@ss word",
		Database: "cosmetics",
		Schema:   "public",
	})

	if !strings.HasPrefix(dsn, "postgres://shop:p%40ss%20word@db:5432/cosmetics?") {
		t.Errorf("unexpected dsn prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") || !strings.Contains(dsn, "search_path=public") {
		t.Errorf("dsn missing query options: %s", dsn)
	}
}
