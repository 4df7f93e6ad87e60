package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"socialgraph/graph"
)

const (
	userRedisKeyPrefix = "graph_user"

	permissionField = "permission"
	metadataField   = "metadata"
)

// RedisStore keeps each record as a hash (permission/metadata) plus a set
// and a mirror list per relation. LREM with count 1 gives the same
// one-entry-per-call removal semantics as the in-memory swap, and like it
// offers no order guarantee to consumers.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisConnection *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisConnection,
	}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, id graph.Identity) error {
	err := s.redisClient.HSetNX(ctx, userKey(id), permissionField, 0).Err()
	if err != nil {
		return fmt.Errorf("creating record for %q: %w", id, err)
	}
	return nil
}

func (s *RedisStore) AddFollow(ctx context.Context, follower, following graph.Identity) error {
	pipe := s.redisClient.TxPipeline()
	pipe.SAdd(ctx, setKey(follower, "following"), string(following))
	pipe.RPush(ctx, listKey(follower, "following"), string(following))
	pipe.SAdd(ctx, setKey(following, "followers"), string(follower))
	pipe.RPush(ctx, listKey(following, "followers"), string(follower))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("adding follow %q -> %q: %w", follower, following, err)
	}
	return nil
}

func (s *RedisStore) RemoveFollow(ctx context.Context, follower, following graph.Identity) error {
	pipe := s.redisClient.TxPipeline()
	pipe.SRem(ctx, setKey(follower, "following"), string(following))
	pipe.LRem(ctx, listKey(follower, "following"), 1, string(following))
	pipe.SRem(ctx, setKey(following, "followers"), string(follower))
	pipe.LRem(ctx, listKey(following, "followers"), 1, string(follower))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("removing follow %q -> %q: %w", follower, following, err)
	}
	return nil
}

func (s *RedisStore) IsFollowing(ctx context.Context, follower, following graph.Identity) (bool, error) {
	return s.isMember(ctx, setKey(follower, "following"), following)
}

func (s *RedisStore) FollowingList(ctx context.Context, follower graph.Identity) ([]graph.Identity, error) {
	return s.list(ctx, listKey(follower, "following"))
}

func (s *RedisStore) FollowerList(ctx context.Context, following graph.Identity) ([]graph.Identity, error) {
	return s.list(ctx, listKey(following, "followers"))
}

func (s *RedisStore) AddBlock(ctx context.Context, blocker, blocked graph.Identity) error {
	// Blocks are set-semantic: a repeated block must not grow the mirror
	// list, or one unblock would strand an unremovable entry.
	isMember, err := s.isMember(ctx, setKey(blocker, "blocked"), blocked)
	if err != nil {
		return err
	}
	if isMember {
		return nil
	}

	pipe := s.redisClient.TxPipeline()
	pipe.SAdd(ctx, setKey(blocker, "blocked"), string(blocked))
	pipe.RPush(ctx, listKey(blocker, "blocked"), string(blocked))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("adding block %q -> %q: %w", blocker, blocked, err)
	}
	return nil
}

func (s *RedisStore) RemoveBlock(ctx context.Context, blocker, blocked graph.Identity) error {
	pipe := s.redisClient.TxPipeline()
	pipe.SRem(ctx, setKey(blocker, "blocked"), string(blocked))
	pipe.LRem(ctx, listKey(blocker, "blocked"), 1, string(blocked))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("removing block %q -> %q: %w", blocker, blocked, err)
	}
	return nil
}

func (s *RedisStore) IsBlocked(ctx context.Context, blocker, blocked graph.Identity) (bool, error) {
	return s.isMember(ctx, setKey(blocker, "blocked"), blocked)
}

func (s *RedisStore) BlockedList(ctx context.Context, blocker graph.Identity) ([]graph.Identity, error) {
	return s.list(ctx, listKey(blocker, "blocked"))
}

func (s *RedisStore) SetPermission(ctx context.Context, id graph.Identity, value graph.Permission) error {
	err := s.redisClient.HSet(ctx, userKey(id), permissionField, uint64(value)).Err()
	if err != nil {
		return fmt.Errorf("setting permission for %q: %w", id, err)
	}
	return nil
}

func (s *RedisStore) GetPermission(ctx context.Context, id graph.Identity) (graph.Permission, error) {
	value, err := s.redisClient.HGet(ctx, userKey(id), permissionField).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading permission for %q: %w", id, err)
	}
	return graph.Permission(uint32(value)), nil
}

func (s *RedisStore) SetMetadata(ctx context.Context, id graph.Identity, blob graph.Metadata) error {
	err := s.redisClient.HSet(ctx, userKey(id), metadataField, blob[:]).Err()
	if err != nil {
		return fmt.Errorf("setting metadata for %q: %w", id, err)
	}
	return nil
}

func (s *RedisStore) GetMetadata(ctx context.Context, id graph.Identity) (graph.Metadata, error) {
	var blob graph.Metadata

	value, err := s.redisClient.HGet(ctx, userKey(id), metadataField).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return blob, nil
		}
		return blob, fmt.Errorf("reading metadata for %q: %w", id, err)
	}
	copy(blob[:], value)
	return blob, nil
}

func (s *RedisStore) isMember(ctx context.Context, key string, id graph.Identity) (bool, error) {
	isMember, err := s.redisClient.SIsMember(ctx, key, string(id)).Result()
	if err != nil {
		return false, fmt.Errorf("reading membership in %q: %w", key, err)
	}
	return isMember, nil
}

func (s *RedisStore) list(ctx context.Context, key string) ([]graph.Identity, error) {
	entries, err := s.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading list %q: %w", key, err)
	}
	result := make([]graph.Identity, len(entries))
	for i, entry := range entries {
		result[i] = graph.Identity(entry)
	}
	return result, nil
}

func userKey(id graph.Identity) string {
	return fmt.Sprintf("%s:%s", userRedisKeyPrefix, id)
}

func setKey(id graph.Identity, relation string) string {
	return fmt.Sprintf("%s:%s:%s", userRedisKeyPrefix, id, relation)
}

func listKey(id graph.Identity, relation string) string {
	return fmt.Sprintf("%s:%s:%s_list", userRedisKeyPrefix, id, relation)
}
