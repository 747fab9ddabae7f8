package repository

import (
	"database/sql"
	"fmt"

	"github.com/emojimart/storefront/internal/config"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB      *sql.DB
	Cart    CartRepository
	Product ProductRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := sql.Open("postgres", cfg.Database.GetDSN())

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		DB:      db,
		Cart:    NewCartRepo(db),
		Product: NewProductRepo(db),
	}, nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
