package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS owners (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		mail VARCHAR(255) UNIQUE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		pid VARCHAR(255) UNIQUE,
		name VARCHAR(255),
		owner_id UUID NOT NULL REFERENCES owners(id),
		restricted_datatype VARCHAR(255),
		rule VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	// members carries no foreign key to collections: deleting a collection
	// does not cascade, and member rows are allowed to outlive it.
	`CREATE TABLE IF NOT EXISTS members (
		collection_id UUID NOT NULL,
		id INTEGER NOT NULL,
		pid VARCHAR(255),
		location VARCHAR(1024),
		checksum VARCHAR(255),
		datatype VARCHAR(255),
		date_added TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_collections_owner_id ON collections(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_name ON collections(name)`,
	`CREATE INDEX IF NOT EXISTS idx_members_collection_id ON members(collection_id)`,
}

// Migrate runs all migrations in order. Statements are idempotent so the
// whole list can be replayed on every start.
func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
