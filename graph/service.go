package graph

import (
	"context"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"socialgraph/audit"
	"socialgraph/monitoring"
)

// Config carries the service policy knobs.
type Config struct {
	// DedupFollows makes Follow a no-op when the edge already exists.
	// Off by default: the historical behavior appends a duplicate entry
	// to both mirror lists on a repeated follow, and consumers may rely
	// on it until a product decision says otherwise.
	DedupFollows bool
}

// Service implements the social graph operations over an injected Store.
// Every guarded operation takes the caller identity asserted by the host
// environment as its first identity parameter and rejects the call with
// ErrUnauthorized when it does not match the subject.
//
// Preconditions are validated before any write, so a rejected call leaves
// the store untouched. The internal lock serializes mutations so the
// check-then-write sequence stays atomic even when the host does not
// serialize calls itself.
type Service struct {
	mu       sync.RWMutex
	store    Store
	auditLog audit.Log
	config   Config
}

func NewService(store Store, auditLog audit.Log, config Config) *Service {
	return &Service{
		store:    store,
		auditLog: auditLog,
		config:   config,
	}
}

func (s *Service) Follow(ctx context.Context, caller, follower, following Identity) error {
	if err := requireCaller(caller, follower, "follow"); err != nil {
		return err
	}
	if follower == following {
		return reject("follow", ErrSelfRelation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blocked, err := s.store.IsBlocked(ctx, follower, following)
	if err != nil {
		return err
	}
	if blocked {
		return reject("follow", ErrBlockedParty)
	}
	if s.config.DedupFollows {
		already, err := s.store.IsFollowing(ctx, follower, following)
		if err != nil {
			return err
		}
		if already {
			return nil
		}
	}

	if err := s.ensureRecords(ctx, follower, following); err != nil {
		return err
	}
	if err := s.store.AddFollow(ctx, follower, following); err != nil {
		return err
	}
	s.recordMutation(audit.KindFollow, follower, following, "")
	return nil
}

func (s *Service) Unfollow(ctx context.Context, caller, follower, following Identity) error {
	if err := requireCaller(caller, follower, "unfollow"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	isFollowing, err := s.store.IsFollowing(ctx, follower, following)
	if err != nil {
		return err
	}
	if !isFollowing {
		return reject("unfollow", ErrNotFollowing)
	}

	if err := s.store.RemoveFollow(ctx, follower, following); err != nil {
		return err
	}
	s.recordMutation(audit.KindUnfollow, follower, following, "")
	return nil
}

// IsFollowing is an unguarded lookup; anyone may query any follow edge.
func (s *Service) IsFollowing(ctx context.Context, follower, following Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IsFollowing(ctx, follower, following)
}

// FollowingList is unguarded. Enumeration order is not stable across
// removals.
func (s *Service) FollowingList(ctx context.Context, follower Identity) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.FollowingList(ctx, follower)
}

// FollowerList is unguarded, like FollowingList.
func (s *Service) FollowerList(ctx context.Context, following Identity) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.FollowerList(ctx, following)
}

// BlockUser records a block from blocker to blocked. An existing follow in
// either direction survives the block.
func (s *Service) BlockUser(ctx context.Context, caller, blocker, blocked Identity) error {
	if err := requireCaller(caller, blocker, "block"); err != nil {
		return err
	}
	if blocker == blocked {
		return reject("block", ErrSelfRelation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRecords(ctx, blocker, blocked); err != nil {
		return err
	}
	if err := s.store.AddBlock(ctx, blocker, blocked); err != nil {
		return err
	}
	s.recordMutation(audit.KindBlock, blocker, blocked, "")
	return nil
}

func (s *Service) UnblockUser(ctx context.Context, caller, blocker, blocked Identity) error {
	if err := requireCaller(caller, blocker, "unblock"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	isBlocked, err := s.store.IsBlocked(ctx, blocker, blocked)
	if err != nil {
		return err
	}
	if !isBlocked {
		return reject("unblock", ErrNotBlocked)
	}

	if err := s.store.RemoveBlock(ctx, blocker, blocked); err != nil {
		return err
	}
	s.recordMutation(audit.KindUnblock, blocker, blocked, "")
	return nil
}

// IsBlocked is caller-gated: only the blocker may query their own block
// set, unlike the follow lookups.
func (s *Service) IsBlocked(ctx context.Context, caller, blocker, blocked Identity) (bool, error) {
	if err := requireCaller(caller, blocker, "is_blocked"); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.IsBlocked(ctx, blocker, blocked)
}

// BlockedList is caller-gated for the same reason as IsBlocked.
func (s *Service) BlockedList(ctx context.Context, caller, blocker Identity) ([]Identity, error) {
	if err := requireCaller(caller, blocker, "blocked_list"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.BlockedList(ctx, blocker)
}

// SetPermission overwrites the full 32-bit permission word. Bits above the
// policy field are stored verbatim.
func (s *Service) SetPermission(ctx context.Context, caller, user Identity, value Permission) error {
	if err := requireCaller(caller, user, "set_permission"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetPermission(ctx, user, value); err != nil {
		return err
	}
	s.recordMutation(audit.KindSetPermission, user, user, strconv.FormatUint(uint64(value), 10))
	return nil
}

func (s *Service) GetPermission(ctx context.Context, user Identity) (Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetPermission(ctx, user)
}

// CanChat evaluates the receiver's chat policy against the current follow
// state. It is unguarded and pure.
func (s *Service) CanChat(ctx context.Context, sender, receiver Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permission, err := s.store.GetPermission(ctx, receiver)
	if err != nil {
		return false, err
	}

	switch permission.Policy() {
	case PolicyOpen:
		return true, nil
	case PolicyFollowersOnly:
		return s.store.IsFollowing(ctx, sender, receiver)
	case PolicyFollowedOnly:
		return s.store.IsFollowing(ctx, receiver, sender)
	case PolicyMutualOnly:
		senderFollows, err := s.store.IsFollowing(ctx, sender, receiver)
		if err != nil || !senderFollows {
			return false, err
		}
		return s.store.IsFollowing(ctx, receiver, sender)
	}
	return false, nil
}

func (s *Service) SetMetadata(ctx context.Context, caller, user Identity, blob Metadata) error {
	if err := requireCaller(caller, user, "set_metadata"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetMetadata(ctx, user, blob); err != nil {
		return err
	}
	s.recordMutation(audit.KindSetMetadata, user, user, hex.EncodeToString(blob[:]))
	return nil
}

func (s *Service) GetMetadata(ctx context.Context, user Identity) (Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetMetadata(ctx, user)
}

// ensureRecords creates default records for the identities a relation is
// about to reference. Called only after every precondition has passed:
// record creation has no observable effect on reads, so it never needs
// rolling back.
func (s *Service) ensureRecords(ctx context.Context, ids ...Identity) error {
	for _, id := range ids {
		if err := s.store.GetOrCreate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recordMutation(kind string, actor, subject Identity, value string) {
	monitoring.GraphMutationsTotal.WithLabelValues(kind).Inc()
	s.auditLog.Append(audit.Event{
		Kind:    kind,
		Actor:   string(actor),
		Subject: string(subject),
		Value:   value,
		Time:    time.Now().UTC(),
	})
}

func requireCaller(caller, subject Identity, operation string) error {
	if caller != subject {
		return reject(operation, ErrUnauthorized)
	}
	return nil
}

func reject(operation string, err error) error {
	monitoring.GraphRejectionsTotal.WithLabelValues(operation, reason(err)).Inc()
	return err
}

func reason(err error) string {
	switch err {
	case ErrUnauthorized:
		return "unauthorized"
	case ErrSelfRelation:
		return "self_relation"
	case ErrBlockedParty:
		return "blocked_party"
	case ErrNotFollowing:
		return "not_following"
	case ErrNotBlocked:
		return "not_blocked"
	}
	return "error"
}
