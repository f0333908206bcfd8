package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"perde-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			phone VARCHAR(30) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			category VARCHAR(100) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id),
			status VARCHAR(20) NOT NULL,
			total_price DECIMAL(10, 2) NOT NULL,
			paid_price DECIMAL(10, 2) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			payment_method VARCHAR(30) NOT NULL,
			transaction_id VARCHAR(100),
			idempotency_key VARCHAR(100) UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10, 2) NOT NULL,
			total_price DECIMAL(10, 2) NOT NULL,
			note TEXT,
			profile VARCHAR(100),
			width_cm DECIMAL(10, 2),
			height_cm DECIMAL(10, 2),
			area_m2 DECIMAL(10, 4),
			mounting_device VARCHAR(100)
		);

		CREATE TABLE IF NOT EXISTS order_addresses (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			kind VARCHAR(10) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			address TEXT NOT NULL,
			district VARCHAR(100) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL,
			postal_code VARCHAR(20) NOT NULL DEFAULT '',
			phone VARCHAR(30) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id),
			product_id VARCHAR(50) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10, 2) NOT NULL,
			total_price DECIMAL(10, 2) NOT NULL,
			note TEXT,
			profile VARCHAR(100),
			width_cm DECIMAL(10, 2),
			height_cm DECIMAL(10, 2),
			mounting_device VARCHAR(100),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_addresses_order_id ON order_addresses(order_id);
		CREATE INDEX IF NOT EXISTS idx_cart_items_account_id ON cart_items(account_id);
		CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test catalogue data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    string
		category string
	}{
		{"PRD-1", "Stor Perde", "150.00", "Perde"},
		{"PRD-2", "Zebra Perde", "210.00", "Perde"},
		{"PRD-3", "Keten Fon Perde", "120.50", "Perde"},
		{"PRD-4", "Ahşap Jaluzi", "340.00", "Jaluzi"},
		{"PRD-5", "Korniş", "85.00", "Aksesuar"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, category) VALUES ($1, $2, $3, $4)",
			p.id, p.name, p.price, p.category,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedAccount inserts one customer account and returns it.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) *model.Account {
	t.Helper()

	account := &model.Account{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Phone:     "+905551112233",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := pool.Exec(context.Background(),
		"INSERT INTO accounts (id, email, first_name, last_name, phone, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		account.ID, account.Email, account.FirstName, account.LastName, account.Phone, account.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}

	return account
}

// UpdateProductPrice changes a catalogue price directly, bypassing the API.
func UpdateProductPrice(t *testing.T, pool *pgxpool.Pool, productID string, price decimal.Decimal) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"UPDATE products SET price = $2 WHERE id = $1", productID, price)
	if err != nil {
		t.Fatalf("failed to update product price: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"cart_items", "order_addresses", "order_items", "orders", "products", "accounts"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
