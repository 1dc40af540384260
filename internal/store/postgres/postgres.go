// Package postgres implements store.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/datacoll-api/internal/database"
	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureOwner(ctx context.Context, mail string) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO owners (mail) VALUES ($1)
		ON CONFLICT (mail) DO NOTHING
	`, mail)
	if err != nil {
		return fmt.Errorf("failed to upsert owner: %w", err)
	}
	return nil
}

func (s *Store) InsertCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	inserted := *c
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (pid, name, owner_id, restricted_datatype, rule)
		SELECT $1, $2, o.id, $3, $4 FROM owners AS o WHERE o.mail = $5
		RETURNING id, created_at
	`, c.PID, c.Name, c.RestrictedDatatype, c.Rule, c.Owner).Scan(
		&inserted.ID, &inserted.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &inserted, nil
}

func (s *Store) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		SELECT c.id, c.pid, c.name, o.mail, c.restricted_datatype, c.rule, c.created_at
		FROM collections AS c INNER JOIN owners AS o ON c.owner_id = o.id
		WHERE c.id = $1
	`, id).Scan(
		&c.ID, &c.PID, &c.Name, &c.Owner, &c.RestrictedDatatype, &c.Rule, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (s *Store) ListCollections(ctx context.Context, f store.CollectionFilter) (store.CollectionCursor, error) {
	query := `
		SELECT c.id, c.pid, c.name, o.mail, c.restricted_datatype, c.rule, c.created_at
		FROM collections AS c INNER JOIN owners AS o ON c.owner_id = o.id`
	var args []any
	if f.Owner != nil {
		query += ` WHERE o.mail = $1`
		args = append(args, *f.Owner)
	}
	query += ` ORDER BY c.created_at`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &collectionCursor{rows: rows}, nil
}

func (s *Store) UpdateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	updated := *c
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE collections
		SET pid = $1, name = $2,
		    owner_id = (SELECT id FROM owners WHERE mail = $3),
		    restricted_datatype = $4, rule = $5, created_at = NOW()
		WHERE id = $6
		RETURNING created_at
	`, c.PID, c.Name, c.Owner, c.RestrictedDatatype, c.Rule, c.ID).Scan(
		&updated.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

func (s *Store) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertMember(ctx context.Context, m *models.Member, assignID bool) (*models.Member, error) {
	inserted := *m
	var err error
	if assignID {
		// Single statement so the id computation and the insert are atomic
		// with respect to concurrent writers on the same collection.
		err = s.db.Pool.QueryRow(ctx, `
			INSERT INTO members (collection_id, pid, location, checksum, datatype, id)
			SELECT $1, $2, $3, $4, $5, COALESCE(MAX(id), 0) + 1
			FROM members WHERE collection_id = $6
			RETURNING id, date_added
		`, m.CollectionID, m.PID, m.Location, m.Checksum, m.Datatype, m.CollectionID).Scan(
			&inserted.ID, &inserted.DateAdded,
		)
	} else {
		err = s.db.Pool.QueryRow(ctx, `
			INSERT INTO members (collection_id, pid, location, checksum, datatype, id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, date_added
		`, m.CollectionID, m.PID, m.Location, m.Checksum, m.Datatype, m.ID).Scan(
			&inserted.ID, &inserted.DateAdded,
		)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &inserted, nil
}

func (s *Store) GetMember(ctx context.Context, collID uuid.UUID, id int) (*models.Member, error) {
	var m models.Member
	err := s.db.Pool.QueryRow(ctx, `
		SELECT collection_id, id, pid, location, checksum, datatype, date_added
		FROM members WHERE collection_id = $1 AND id = $2
	`, collID, id).Scan(
		&m.CollectionID, &m.ID, &m.PID, &m.Location, &m.Checksum, &m.Datatype, &m.DateAdded,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, f store.MemberFilter) (store.MemberCursor, error) {
	query := `
		SELECT m.collection_id, m.id, m.pid, m.location, m.checksum, m.datatype, m.date_added
		FROM members AS m`
	var args []any
	switch {
	case f.NameRule != nil:
		// Rule-based membership: join against all collections whose name
		// matches the rule instead of filtering on the owning id.
		query += ` INNER JOIN collections AS c ON m.collection_id = c.id
		WHERE c.name LIKE $1 ESCAPE '\'`
		args = append(args, store.GlobToLike(*f.NameRule))
	case f.CollectionID != nil:
		query += ` WHERE m.collection_id = $1`
		args = append(args, *f.CollectionID)
	}
	query += ` ORDER BY m.id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &memberCursor{rows: rows}, nil
}

func (s *Store) UpdateMember(ctx context.Context, collID uuid.UUID, id int, m *models.Member) (*models.Member, error) {
	updated := *m
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE members
		SET id = $1, pid = $2, location = $3, checksum = $4, datatype = $5
		WHERE collection_id = $6 AND id = $7
		RETURNING date_added
	`, m.ID, m.PID, m.Location, m.Checksum, m.Datatype, collID, id).Scan(
		&updated.DateAdded,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

func (s *Store) DeleteMember(ctx context.Context, collID uuid.UUID, id int) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM members WHERE collection_id = $1 AND id = $2
	`, collID, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}

type collectionCursor struct {
	rows pgx.Rows
}

func (c *collectionCursor) Next(ctx context.Context) (*models.Collection, bool, error) {
	if !c.rows.Next() {
		return nil, false, c.rows.Err()
	}
	var coll models.Collection
	if err := c.rows.Scan(
		&coll.ID, &coll.PID, &coll.Name, &coll.Owner,
		&coll.RestrictedDatatype, &coll.Rule, &coll.CreatedAt,
	); err != nil {
		return nil, false, err
	}
	return &coll, true, nil
}

func (c *collectionCursor) Close(context.Context) error {
	c.rows.Close()
	return c.rows.Err()
}

type memberCursor struct {
	rows pgx.Rows
}

func (c *memberCursor) Next(ctx context.Context) (*models.Member, bool, error) {
	if !c.rows.Next() {
		return nil, false, c.rows.Err()
	}
	var m models.Member
	if err := c.rows.Scan(
		&m.CollectionID, &m.ID, &m.PID, &m.Location,
		&m.Checksum, &m.Datatype, &m.DateAdded,
	); err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (c *memberCursor) Close(context.Context) error {
	c.rows.Close()
	return c.rows.Err()
}
