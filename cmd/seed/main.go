// Command seed populates the catalog database with sample products and
// reviews for local development.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dylanS0811/product-review-platform/internal/config"
	"github.com/dylanS0811/product-review-platform/migrations"
	"github.com/dylanS0811/product-review-platform/pkg/database"
	"github.com/dylanS0811/product-review-platform/pkg/logger"
)

type productSeed struct {
	id          string
	name        string
	description string
	category    string
	price       string
	image       string
}

var products = []productSeed{
	{"trail-pack-30", "Trail Pack 30L", "Lightweight daypack with rain cover", "Outdoors", "89.99", "/img/trail-pack-30.png"},
	{"camp-stove-1b", "Camp Stove", "Single burner propane stove", "Outdoors", "34.50", "/img/camp-stove-1b.png"},
	{"merino-base-m", "Merino Base Layer", "Midweight merino crew, men's", "Apparel", "64.00", "/img/merino-base-m.png"},
	{"headlamp-350", "Headlamp 350", "350 lumen rechargeable headlamp", "Electronics", "44.95", "/img/headlamp-350.png"},
	{"steel-bottle-1l", "Steel Bottle 1L", "Vacuum insulated, keeps cold 24h", "Accessories", "29.99", "/img/steel-bottle-1l.png"},
	{"trek-poles-cf", "Trekking Poles CF", "Carbon fiber, cork grips, pair", "Outdoors", "119.00", "/img/trek-poles-cf.png"},
}

var authors = []string{"dana", "sam", "alex", "jordan", "casey", "riley"}

var comments = []string{
	"Exactly what I needed for weekend trips.",
	"Solid build, would buy again.",
	"Decent for the price, nothing special.",
	"Held up well after a season of heavy use.",
	"Sizing runs a little small.",
	"Arrived fast, works as described.",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresPoolConfig().DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	for i, p := range products {
		added := now.AddDate(0, 0, -(i*7 + rng.Intn(7)))
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, description, category, price, image, date_added)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.description, p.category, p.price, p.image, added)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.id, err)
		}

		for j := 0; j < rng.Intn(4); j++ {
			_, err := pool.Exec(ctx, `
				INSERT INTO reviews (product_id, author, rating, comment, date)
				VALUES ($1, $2, $3, $4, $5)`,
				p.id,
				authors[rng.Intn(len(authors))],
				rng.Intn(5)+1,
				comments[rng.Intn(len(comments))],
				added.AddDate(0, 0, rng.Intn(30)+1))
			if err != nil {
				return fmt.Errorf("insert review for %s: %w", p.id, err)
			}
		}

		_, err = pool.Exec(ctx, `
			UPDATE products
			SET average_rating = (SELECT ROUND(AVG(rating), 2) FROM reviews WHERE product_id = $1)
			WHERE id = $1`, p.id)
		if err != nil {
			return fmt.Errorf("recompute rating for %s: %w", p.id, err)
		}
	}

	log.Info("seed complete", "products", len(products))
	return nil
}
