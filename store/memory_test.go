package store

import (
	"context"
	"testing"

	"socialgraph/graph"
)

func TestReadsDoNotAllocateRecords(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetPermission(ctx, "ghost"); err != nil {
		t.Fatalf("getPermission failed: %v", err)
	}
	if _, err := s.FollowingList(ctx, "ghost"); err != nil {
		t.Fatalf("followingList failed: %v", err)
	}
	if isFollowing, _ := s.IsFollowing(ctx, "ghost", "anyone"); isFollowing {
		t.Error("isFollowing on never-seen identity = true")
	}
	if len(s.records) != 0 {
		t.Errorf("reads allocated %d records, want 0", len(s.records))
	}
}

func TestGetOrCreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.GetOrCreate(ctx, "alice"); err != nil {
		t.Fatalf("getOrCreate failed: %v", err)
	}

	permission, _ := s.GetPermission(ctx, "alice")
	if permission != 0 {
		t.Errorf("default permission = %d, want 0", permission)
	}
	blob, _ := s.GetMetadata(ctx, "alice")
	if !blob.IsZero() {
		t.Errorf("default metadata = %x, want zero blob", blob)
	}
	following, _ := s.FollowingList(ctx, "alice")
	blocked, _ := s.BlockedList(ctx, "alice")
	if len(following) != 0 || len(blocked) != 0 {
		t.Errorf("default lists = %v, %v; want empty", following, blocked)
	}
}

func TestRecordSurvivesRelationRemoval(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SetPermission(ctx, "alice", 3); err != nil {
		t.Fatalf("setPermission failed: %v", err)
	}
	if err := s.AddFollow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("addFollow failed: %v", err)
	}
	if err := s.RemoveFollow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("removeFollow failed: %v", err)
	}

	permission, _ := s.GetPermission(ctx, "alice")
	if permission != 3 {
		t.Errorf("permission = %d after removing relations, want 3", permission)
	}
}

func TestSwapRemoveUnorderedSemantics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []graph.Identity{"b", "c", "d"} {
		if err := s.AddFollow(ctx, "a", id); err != nil {
			t.Fatalf("addFollow failed: %v", err)
		}
	}
	if err := s.RemoveFollow(ctx, "a", "b"); err != nil {
		t.Fatalf("removeFollow failed: %v", err)
	}

	// Removal swaps the last entry into the vacated slot
	following, _ := s.FollowingList(ctx, "a")
	if len(following) != 2 || following[0] != "d" || following[1] != "c" {
		t.Errorf("followingList(a) = %v, want [d c]", following)
	}
}

func TestRemoveFollowDropsOneDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.AddFollow(ctx, "a", "b"); err != nil {
		t.Fatalf("addFollow failed: %v", err)
	}
	if err := s.AddFollow(ctx, "a", "b"); err != nil {
		t.Fatalf("addFollow failed: %v", err)
	}

	following, _ := s.FollowingList(ctx, "a")
	if len(following) != 2 {
		t.Fatalf("followingList(a) = %v, want two entries", following)
	}

	if err := s.RemoveFollow(ctx, "a", "b"); err != nil {
		t.Fatalf("removeFollow failed: %v", err)
	}
	following, _ = s.FollowingList(ctx, "a")
	if len(following) != 1 {
		t.Errorf("followingList(a) = %v after one removal, want one entry", following)
	}
	followers, _ := s.FollowerList(ctx, "b")
	if len(followers) != 1 {
		t.Errorf("followerList(b) = %v after one removal, want one entry", followers)
	}
}

func TestListsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.AddFollow(ctx, "a", "b"); err != nil {
		t.Fatalf("addFollow failed: %v", err)
	}

	following, _ := s.FollowingList(ctx, "a")
	following[0] = "tampered"

	fresh, _ := s.FollowingList(ctx, "a")
	if fresh[0] != "b" {
		t.Error("mutating a returned list changed store state")
	}
}

func TestAddBlockIsSetSemantic(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.AddBlock(ctx, "a", "b"); err != nil {
			t.Fatalf("addBlock %d failed: %v", i, err)
		}
	}

	blocked, _ := s.BlockedList(ctx, "a")
	if len(blocked) != 1 || blocked[0] != "b" {
		t.Fatalf("blockedList(a) = %v after double block, want [b]", blocked)
	}

	// One removal clears everything: no stale list entry may survive
	if err := s.RemoveBlock(ctx, "a", "b"); err != nil {
		t.Fatalf("removeBlock failed: %v", err)
	}
	if isBlocked, _ := s.IsBlocked(ctx, "a", "b"); isBlocked {
		t.Error("isBlocked(a, b) = true after unblock")
	}
	blocked, _ = s.BlockedList(ctx, "a")
	if len(blocked) != 0 {
		t.Errorf("blockedList(a) = %v after unblock, want empty", blocked)
	}
}

func TestBlockIsAsymmetric(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.AddBlock(ctx, "a", "b"); err != nil {
		t.Fatalf("addBlock failed: %v", err)
	}

	if isBlocked, _ := s.IsBlocked(ctx, "a", "b"); !isBlocked {
		t.Error("isBlocked(a, b) = false, want true")
	}
	if isBlocked, _ := s.IsBlocked(ctx, "b", "a"); isBlocked {
		t.Error("isBlocked(b, a) = true, want false: blocks have no mirror")
	}
	blocked, _ := s.BlockedList(ctx, "b")
	if len(blocked) != 0 {
		t.Errorf("blockedList(b) = %v, want empty", blocked)
	}
}
