package graph

import "context"

// Store is the durable identity-to-record mapping behind the service. A
// record exists for every identity ever referenced by a mutation; reads on
// a never-seen identity return zero values without allocating a record.
//
// Mutating methods must be atomic: they either apply fully or not at all.
// Enumeration order of the list methods is not stable across removals; a
// backend may reorder entries however its removal primitive works.
type Store interface {
	// GetOrCreate ensures a record with default values exists for id.
	GetOrCreate(ctx context.Context, id Identity) error

	// AddFollow inserts the directed follow edge on both mirrors: following
	// on the follower side, follower on the followee side. Inserting an
	// edge that already exists appends duplicate list entries; set
	// membership is unchanged.
	AddFollow(ctx context.Context, follower, following Identity) error
	// RemoveFollow clears the edge from both sides, removing one matching
	// list entry per side.
	RemoveFollow(ctx context.Context, follower, following Identity) error
	IsFollowing(ctx context.Context, follower, following Identity) (bool, error)
	FollowingList(ctx context.Context, follower Identity) ([]Identity, error)
	FollowerList(ctx context.Context, following Identity) ([]Identity, error)

	// AddBlock inserts the block edge on the blocker side only. Unlike
	// AddFollow it is set-semantic: repeating it changes nothing, so the
	// mirror list holds at most one entry per blocked identity.
	AddBlock(ctx context.Context, blocker, blocked Identity) error
	RemoveBlock(ctx context.Context, blocker, blocked Identity) error
	IsBlocked(ctx context.Context, blocker, blocked Identity) (bool, error)
	BlockedList(ctx context.Context, blocker Identity) ([]Identity, error)

	SetPermission(ctx context.Context, id Identity, value Permission) error
	GetPermission(ctx context.Context, id Identity) (Permission, error)

	SetMetadata(ctx context.Context, id Identity, blob Metadata) error
	GetMetadata(ctx context.Context, id Identity) (Metadata, error)
}
