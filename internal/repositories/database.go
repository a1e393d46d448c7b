package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// queryTimeout bounds every statement issued by the repositories.
const queryTimeout = 5 * time.Second

func withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

var (
	ErrDuplicateName = errors.New("name already exists")
	ErrReferenced    = errors.New("row is still referenced")
	ErrMissingParent = errors.New("referenced row does not exist")
)

type Repository struct {
	DB       *sql.DB
	Category CategoryRepository
	Product  ProductRepository
	Order    OrderRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := withQueryTimeout(context.Background())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.RunMigrations {
		if err := RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return NewWithDB(db), nil
}

func NewWithDB(db *sql.DB) *Repository {
	return &Repository{
		DB:       db,
		Category: NewCategoryRepo(db),
		Product:  NewProductRepo(db),
		Order:    NewOrderRepo(db),
	}
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{MigrationsTable: "storefront_schema_migrations"})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, _, _ := m.Version()
	slog.Info("Database schema is up to date", slog.Uint64("version", uint64(version)))

	return nil
}

func (r *Repository) Close() error {
	return r.DB.Close()
}

// slugAttempts bounds how many numbered variants of a slug are tried.
const slugAttempts = 5

const (
	categorySlugIndex = "categories_slug_key"
	productSlugIndex  = "products_slug_key"
)

// withUniqueSlug runs write and, while it fails on the slug index, retries
// with base-2, base-3 and so on. *slug holds the value that was written.
func withUniqueSlug(slug *string, index string, write func() error) error {
	base := *slug

	for n := 1; ; n++ {
		err := write()

		var pqErr *pq.Error
		if err == nil || n == slugAttempts || !errors.As(err, &pqErr) ||
			pqErr.Code != "23505" || pqErr.Constraint != index {
			return err
		}

		*slug = fmt.Sprintf("%s-%d", base, n+1)
	}
}

// translate maps constraint violations onto the package sentinels so callers
// can tell a lost check-then-act race from a real failure. A foreign key
// violation means different things for a delete and for an insert, so the
// caller picks the sentinel.
func translate(err error, onForeignKey error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", ErrDuplicateName, pqErr.Constraint)
	case "23503":
		return fmt.Errorf("%w: %s", onForeignKey, pqErr.Constraint)
	}

	return err
}
