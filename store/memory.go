package store

import (
	"context"
	"sync"

	"socialgraph/graph"
)

type record struct {
	permission graph.Permission
	metadata   graph.Metadata

	following map[graph.Identity]struct{}
	followers map[graph.Identity]struct{}
	blocked   map[graph.Identity]struct{}

	// Mirror lists for enumeration. Kept in sync with the sets above,
	// except that a repeated follow appends a duplicate entry.
	followingList []graph.Identity
	followerList  []graph.Identity
	blockedList   []graph.Identity
}

func newRecord() *record {
	return &record{
		following: make(map[graph.Identity]struct{}),
		followers: make(map[graph.Identity]struct{}),
		blocked:   make(map[graph.Identity]struct{}),
	}
}

// MemoryStore is the in-process Store backend. Records are created lazily
// on first mutation; reads on a never-seen identity return zero values
// without allocating anything.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[graph.Identity]*record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[graph.Identity]*record),
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, id graph.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(id)
	return nil
}

func (s *MemoryStore) AddFollow(_ context.Context, follower, following graph.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	followerRecord := s.getOrCreate(follower)
	followingRecord := s.getOrCreate(following)

	followerRecord.following[following] = struct{}{}
	followerRecord.followingList = append(followerRecord.followingList, following)
	followingRecord.followers[follower] = struct{}{}
	followingRecord.followerList = append(followingRecord.followerList, follower)
	return nil
}

func (s *MemoryStore) RemoveFollow(_ context.Context, follower, following graph.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if followerRecord, ok := s.records[follower]; ok {
		delete(followerRecord.following, following)
		followerRecord.followingList = swapRemove(followerRecord.followingList, following)
	}
	if followingRecord, ok := s.records[following]; ok {
		delete(followingRecord.followers, follower)
		followingRecord.followerList = swapRemove(followingRecord.followerList, follower)
	}
	return nil
}

func (s *MemoryStore) IsFollowing(_ context.Context, follower, following graph.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followerRecord, ok := s.records[follower]
	if !ok {
		return false, nil
	}
	_, isFollowing := followerRecord.following[following]
	return isFollowing, nil
}

func (s *MemoryStore) FollowingList(_ context.Context, follower graph.Identity) ([]graph.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followerRecord, ok := s.records[follower]
	if !ok {
		return nil, nil
	}
	return copyList(followerRecord.followingList), nil
}

func (s *MemoryStore) FollowerList(_ context.Context, following graph.Identity) ([]graph.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followingRecord, ok := s.records[following]
	if !ok {
		return nil, nil
	}
	return copyList(followingRecord.followerList), nil
}

func (s *MemoryStore) AddBlock(_ context.Context, blocker, blocked graph.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blockerRecord := s.getOrCreate(blocker)
	// Blocks are set-semantic: a repeated block must not grow the mirror
	// list, or one unblock would strand an unremovable entry.
	if _, ok := blockerRecord.blocked[blocked]; ok {
		return nil
	}
	blockerRecord.blocked[blocked] = struct{}{}
	blockerRecord.blockedList = append(blockerRecord.blockedList, blocked)
	return nil
}

func (s *MemoryStore) RemoveBlock(_ context.Context, blocker, blocked graph.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blockerRecord, ok := s.records[blocker]; ok {
		delete(blockerRecord.blocked, blocked)
		blockerRecord.blockedList = swapRemove(blockerRecord.blockedList, blocked)
	}
	return nil
}

func (s *MemoryStore) IsBlocked(_ context.Context, blocker, blocked graph.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blockerRecord, ok := s.records[blocker]
	if !ok {
		return false, nil
	}
	_, isBlocked := blockerRecord.blocked[blocked]
	return isBlocked, nil
}

func (s *MemoryStore) BlockedList(_ context.Context, blocker graph.Identity) ([]graph.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blockerRecord, ok := s.records[blocker]
	if !ok {
		return nil, nil
	}
	return copyList(blockerRecord.blockedList), nil
}

func (s *MemoryStore) SetPermission(_ context.Context, id graph.Identity, value graph.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(id).permission = value
	return nil
}

func (s *MemoryStore) GetPermission(_ context.Context, id graph.Identity) (graph.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idRecord, ok := s.records[id]
	if !ok {
		return 0, nil
	}
	return idRecord.permission, nil
}

func (s *MemoryStore) SetMetadata(_ context.Context, id graph.Identity, blob graph.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(id).metadata = blob
	return nil
}

func (s *MemoryStore) GetMetadata(_ context.Context, id graph.Identity) (graph.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idRecord, ok := s.records[id]
	if !ok {
		return graph.Metadata{}, nil
	}
	return idRecord.metadata, nil
}

func (s *MemoryStore) getOrCreate(id graph.Identity) *record {
	idRecord, ok := s.records[id]
	if !ok {
		idRecord = newRecord()
		s.records[id] = idRecord
	}
	return idRecord
}

// swapRemove removes one matching entry by overwriting it with the current
// last element and shrinking the list. Enumeration order is not preserved.
func swapRemove(list []graph.Identity, id graph.Identity) []graph.Identity {
	for i, entry := range list {
		if entry == id {
			last := len(list) - 1
			list[i] = list[last]
			return list[:last]
		}
	}
	return list
}

func copyList(list []graph.Identity) []graph.Identity {
	result := make([]graph.Identity, len(list))
	copy(result, list)
	return result
}
