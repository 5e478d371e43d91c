package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/monochain/monochain/internal/chain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres persists the chain in a PostgreSQL table with one column per
// block field and the block index as primary key.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	p := &Postgres{pool: pool}

	// Run migrations. This is idempotent.
	if err = p.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return p, nil
}

func (p *Postgres) runMigrations() error {
	slog.Info("Running PostgreSQL migrations...")

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(p.pool), &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// DB returns a database/sql view of the pool for the SQL metrics collectors.
func (p *Postgres) DB() *sql.DB {
	return stdlib.OpenDBFromPool(p.pool)
}

func (p *Postgres) Append(ctx context.Context, b *chain.Block) error {
	// Plain INSERT: the chain is append-only, a duplicate index is corruption.
	_, err := p.pool.Exec(ctx, `
		INSERT INTO chain.blocks (id, timestamp, data, previous_hash, nonce, hash)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, b.Index, b.Timestamp, b.Data, b.PrevHash, b.Nonce, b.Hash)
	if err != nil {
		return fmt.Errorf("failed to write block %d: %w", b.Index, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, index uint64) (*chain.Block, error) {
	return p.scanBlock(p.pool.QueryRow(ctx, `
		SELECT id, timestamp, data, previous_hash, nonce, hash
		FROM chain.blocks
		WHERE id = $1
	`, index))
}

func (p *Postgres) List(ctx context.Context) ([]*chain.Block, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, timestamp, data, previous_hash, nonce, hash
		FROM chain.blocks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*chain.Block
	for rows.Next() {
		var b chain.Block
		if err := rows.Scan(&b.Index, &b.Timestamp, &b.Data, &b.PrevHash, &b.Nonce, &b.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blocks: %w", err)
	}

	return blocks, nil
}

func (p *Postgres) Len(ctx context.Context) (uint64, error) {
	var count uint64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chain.blocks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count blocks: %w", err)
	}
	return count, nil
}

func (p *Postgres) Tail(ctx context.Context) (*chain.Block, error) {
	return p.scanBlock(p.pool.QueryRow(ctx, `
		SELECT id, timestamp, data, previous_hash, nonce, hash
		FROM chain.blocks
		ORDER BY id DESC
		LIMIT 1
	`))
}

func (p *Postgres) scanBlock(row pgx.Row) (*chain.Block, error) {
	var b chain.Block
	err := row.Scan(&b.Index, &b.Timestamp, &b.Data, &b.PrevHash, &b.Nonce, &b.Hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read block: %w", err)
	}
	return &b, nil
}

func (p *Postgres) Close() error {
	slog.Info("Closing PostgreSQL connection pool")
	p.pool.Close()
	return nil
}
