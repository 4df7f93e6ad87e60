package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialgraph/graph"
)

const schema = `
CREATE TABLE IF NOT EXISTS graph_users (
    id         TEXT PRIMARY KEY,
    permission BIGINT NOT NULL DEFAULT 0,
    metadata   BYTEA  NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS graph_follows (
    seq       BIGSERIAL PRIMARY KEY,
    follower  TEXT NOT NULL,
    following TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS graph_follows_follower_idx  ON graph_follows (follower);
CREATE INDEX IF NOT EXISTS graph_follows_following_idx ON graph_follows (following);
CREATE TABLE IF NOT EXISTS graph_blocks (
    seq     BIGSERIAL PRIMARY KEY,
    blocker TEXT NOT NULL,
    blocked TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS graph_blocks_blocker_idx ON graph_blocks (blocker);
`

// PostgresStore persists records in three tables: one row per identity and
// one row per follow/block edge. A repeated follow inserts another edge
// row, which is how the duplicate mirror-list entries surface from this
// backend; removal deletes a single row by seq.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Init creates the schema. Safe to call on every start.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, id graph.Identity) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO graph_users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		string(id),
	)
	if err != nil {
		return fmt.Errorf("creating record for %q: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) AddFollow(ctx context.Context, follower, following graph.Identity) error {
	return s.transact(ctx, func(tx pgx.Tx) error {
		if err := ensureUsers(ctx, tx, follower, following); err != nil {
			return err
		}
		_, err := tx.Exec(
			ctx,
			`INSERT INTO graph_follows (follower, following) VALUES ($1, $2)`,
			string(follower), string(following),
		)
		return err
	})
}

func (s *PostgresStore) RemoveFollow(ctx context.Context, follower, following graph.Identity) error {
	_, err := s.pool.Exec(
		ctx,
		`DELETE FROM graph_follows
		 WHERE seq = (
		     SELECT seq FROM graph_follows WHERE follower = $1 AND following = $2 LIMIT 1
		 )`,
		string(follower), string(following),
	)
	if err != nil {
		return fmt.Errorf("removing follow %q -> %q: %w", follower, following, err)
	}
	return nil
}

func (s *PostgresStore) IsFollowing(ctx context.Context, follower, following graph.Identity) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM graph_follows WHERE follower = $1 AND following = $2)`,
		string(follower), string(following),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("reading follow %q -> %q: %w", follower, following, err)
	}
	return exists, nil
}

func (s *PostgresStore) FollowingList(ctx context.Context, follower graph.Identity) ([]graph.Identity, error) {
	return s.listColumn(
		ctx,
		`SELECT following FROM graph_follows WHERE follower = $1`,
		follower,
	)
}

func (s *PostgresStore) FollowerList(ctx context.Context, following graph.Identity) ([]graph.Identity, error) {
	return s.listColumn(
		ctx,
		`SELECT follower FROM graph_follows WHERE following = $1`,
		following,
	)
}

func (s *PostgresStore) AddBlock(ctx context.Context, blocker, blocked graph.Identity) error {
	return s.transact(ctx, func(tx pgx.Tx) error {
		if err := ensureUsers(ctx, tx, blocker, blocked); err != nil {
			return err
		}
		// Mirror the set semantics: one block row per pair at most.
		var exists bool
		err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM graph_blocks WHERE blocker = $1 AND blocked = $2)`,
			string(blocker), string(blocked),
		).Scan(&exists)
		if err != nil || exists {
			return err
		}
		_, err = tx.Exec(
			ctx,
			`INSERT INTO graph_blocks (blocker, blocked) VALUES ($1, $2)`,
			string(blocker), string(blocked),
		)
		return err
	})
}

func (s *PostgresStore) RemoveBlock(ctx context.Context, blocker, blocked graph.Identity) error {
	_, err := s.pool.Exec(
		ctx,
		`DELETE FROM graph_blocks WHERE blocker = $1 AND blocked = $2`,
		string(blocker), string(blocked),
	)
	if err != nil {
		return fmt.Errorf("removing block %q -> %q: %w", blocker, blocked, err)
	}
	return nil
}

func (s *PostgresStore) IsBlocked(ctx context.Context, blocker, blocked graph.Identity) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM graph_blocks WHERE blocker = $1 AND blocked = $2)`,
		string(blocker), string(blocked),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("reading block %q -> %q: %w", blocker, blocked, err)
	}
	return exists, nil
}

func (s *PostgresStore) BlockedList(ctx context.Context, blocker graph.Identity) ([]graph.Identity, error) {
	return s.listColumn(
		ctx,
		`SELECT blocked FROM graph_blocks WHERE blocker = $1`,
		blocker,
	)
}

func (s *PostgresStore) SetPermission(ctx context.Context, id graph.Identity, value graph.Permission) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO graph_users (id, permission) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET permission = $2`,
		string(id), int64(value),
	)
	if err != nil {
		return fmt.Errorf("setting permission for %q: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) GetPermission(ctx context.Context, id graph.Identity) (graph.Permission, error) {
	var value int64
	err := s.pool.QueryRow(
		ctx,
		`SELECT permission FROM graph_users WHERE id = $1`,
		string(id),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading permission for %q: %w", id, err)
	}
	return graph.Permission(uint32(value)), nil
}

func (s *PostgresStore) SetMetadata(ctx context.Context, id graph.Identity, blob graph.Metadata) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO graph_users (id, metadata) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET metadata = $2`,
		string(id), blob[:],
	)
	if err != nil {
		return fmt.Errorf("setting metadata for %q: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) GetMetadata(ctx context.Context, id graph.Identity) (graph.Metadata, error) {
	var blob graph.Metadata
	var value []byte

	err := s.pool.QueryRow(
		ctx,
		`SELECT metadata FROM graph_users WHERE id = $1`,
		string(id),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blob, nil
		}
		return blob, fmt.Errorf("reading metadata for %q: %w", id, err)
	}
	copy(blob[:], value)
	return blob, nil
}

func (s *PostgresStore) listColumn(ctx context.Context, query string, id graph.Identity) ([]graph.Identity, error) {
	rows, err := s.pool.Query(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("listing relations of %q: %w", id, err)
	}
	defer rows.Close()

	var result []graph.Identity
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("listing relations of %q: %w", id, err)
		}
		result = append(result, graph.Identity(entry))
	}
	return result, rows.Err()
}

func (s *PostgresStore) transact(ctx context.Context, operation func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := operation(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func ensureUsers(ctx context.Context, tx pgx.Tx, ids ...graph.Identity) error {
	for _, id := range ids {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO graph_users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
			string(id),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
