package main

import (
	"context"
	"fmt"
	"log"

	"perde-store/internal/config"
	"perde-store/internal/database"

	"github.com/rs/zerolog"
)

// seedProducts loads a starter catalogue into the database. Prices for
// curtains and blinds are per square metre; accessories are per unit.
// Usage: go run scripts/seed_products.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, zerolog.Nop())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	products := []struct {
		id       string
		name     string
		price    string
		category string
	}{
		{"PRD-1", "Stor Perde", "150.00", "Perde"},
		{"PRD-2", "Zebra Perde", "210.00", "Perde"},
		{"PRD-3", "Keten Fon Perde", "120.50", "Perde"},
		{"PRD-4", "Blackout Fon Perde", "175.00", "Perde"},
		{"PRD-5", "Tül Perde", "95.00", "Perde"},
		{"PRD-6", "Ahşap Jaluzi", "340.00", "Jaluzi"},
		{"PRD-7", "Alüminyum Jaluzi", "260.00", "Jaluzi"},
		{"PRD-8", "Plise Perde", "230.00", "Perde"},
		{"PRD-9", "Korniş", "85.00", "Aksesuar"},
		{"PRD-10", "Perde Bağlama Aparatı", "25.00", "Aksesuar"},
	}

	seeded := 0
	for _, p := range products {
		tag, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, p.id, p.name, p.price, p.category)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.id, err)
		}
		if tag.RowsAffected() > 0 {
			seeded++
			fmt.Printf("Seeded %s (%s, %s TRY)\n", p.id, p.name, p.price)
		}
	}

	fmt.Printf("\nDone: %d new products, %d already present\n", seeded, len(products)-seeded)
}
