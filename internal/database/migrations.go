package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the remote store schema. Contributors cascade when
// their campaign is deleted; payments keep no foreign key on purpose so
// the approval record outlives the campaign, matching the local store's
// asymmetric cascade.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT,
			phone TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			goal DECIMAL(14, 2) NOT NULL DEFAULT 0 CHECK (goal >= 0),
			deadline DATE,
			coordinator_pin TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL REFERENCES profiles(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, code)
		)`,

		`CREATE TABLE IF NOT EXISTS contributors (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			amount DECIMAL(14, 2) NOT NULL DEFAULT 0 CHECK (amount >= 0),
			status TEXT NOT NULL DEFAULT 'pending',
			payment_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			campaign_id TEXT NOT NULL,
			reporter_name TEXT NOT NULL,
			amount DECIMAL(14, 2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			approved_at TIMESTAMPTZ,
			rejected_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_campaigns_user_id ON campaigns(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contributors_campaign_id ON contributors(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contributors_status ON contributors(status)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_campaign_id ON payments(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
