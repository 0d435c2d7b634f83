package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Tests calling this are
// skipped when no MySQL instance named 'radagast_test' is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/radagast_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"order_item_options", "order_items", "orders",
		"menu_options", "menus", "addresses", "restaurants",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the integration tests. Mirrors
// migrations/ without the cross-table constraints so cleanup stays simple.
func SetupTestTables(t *testing.T, db *sql.DB) {
	statements := []struct {
		name  string
		query string
	}{
		{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			restaurant_id CHAR(36) NOT NULL,
			address_id CHAR(36) NOT NULL,
			total_price BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(20) NOT NULL,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			order_id CHAR(36) NOT NULL,
			menu_id CHAR(36) NOT NULL,
			restaurant_id CHAR(36) NOT NULL,
			quantity INT NOT NULL,
			price BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"order_item_options", `
		CREATE TABLE IF NOT EXISTS order_item_options (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			order_item_id CHAR(36) NOT NULL,
			menu_option_id CHAR(36) NOT NULL,
			price BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"restaurants", `
		CREATE TABLE IF NOT EXISTS restaurants (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"addresses", `
		CREATE TABLE IF NOT EXISTS addresses (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"menus", `
		CREATE TABLE IF NOT EXISTS menus (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			restaurant_id CHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			price BIGINT NOT NULL,
			is_available TINYINT(1) NOT NULL DEFAULT 1,
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"menu_options", `
		CREATE TABLE IF NOT EXISTS menu_options (
			uuid CHAR(36) NOT NULL PRIMARY KEY,
			menu_id CHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			price BIGINT NOT NULL,
			is_deleted TINYINT(1) NOT NULL DEFAULT 0
		)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			t.Logf("failed to create table %s: %v", stmt.name, err)
		}
	}
}
