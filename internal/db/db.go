package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the Postgres pool and bootstraps the schema.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Println("Connected to Postgres successfully")

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			user_type TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			skills TEXT[] NOT NULL DEFAULT '{}',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			completed_projects INTEGER NOT NULL DEFAULT 0,
			portfolio JSONB NOT NULL DEFAULT '[]',
			achievements JSONB NOT NULL DEFAULT '[]',
			past_work JSONB NOT NULL DEFAULT '[]',
			subscription_status TEXT NOT NULL DEFAULT 'inactive',
			subscription_expiry TIMESTAMP WITH TIME ZONE NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS gigs (
			id UUID PRIMARY KEY,
			freelancer_id UUID NOT NULL REFERENCES users(id),
			freelancer_name TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			delivery_days INTEGER NOT NULL,
			requirements TEXT[] NOT NULL DEFAULT '{}',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			orders INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			gig_id UUID NOT NULL REFERENCES gigs(id),
			gig_title TEXT NOT NULL,
			client_id UUID NOT NULL REFERENCES users(id),
			freelancer_id UUID NOT NULL REFERENCES users(id),
			price BIGINT NOT NULL,
			requirements TEXT NOT NULL DEFAULT '',
			instructions TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK (status IN (
				'pending', 'in_progress', 'delivered', 'completed', 'disputed', 'refunded'
			)),
			delivery_date TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_freelancer ON orders(freelancer_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS escrows (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL UNIQUE REFERENCES orders(id),
			amount BIGINT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('held', 'released', 'refunded')),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS disputes (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			initiated_by UUID NOT NULL REFERENCES users(id),
			reason TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK (status IN ('pending', 'resolved')),
			resolution TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			resolved_by TEXT NOT NULL DEFAULT '',
			admin_email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			resolved_at TIMESTAMP WITH TIME ZONE NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disputes_order ON disputes(order_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			sender_id UUID NOT NULL REFERENCES users(id),
			sender_name TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_order ON messages(order_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL UNIQUE REFERENCES orders(id),
			gig_id UUID NOT NULL REFERENCES gigs(id),
			client_id UUID NOT NULL REFERENCES users(id),
			client_name TEXT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_gig ON reviews(gig_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			amount BIGINT NOT NULL,
			start_date TIMESTAMP WITH TIME ZONE NOT NULL,
			expiry_date TIMESTAMP WITH TIME ZONE NOT NULL,
			status TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
