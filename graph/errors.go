package graph

import "errors"

// All failures are precondition violations. They are detected before any
// write, so a failed call never leaves partial state behind.
var (
	// ErrUnauthorized means the asserted caller does not match the subject
	// identity of the operation.
	ErrUnauthorized = errors.New("caller does not match subject identity")

	// ErrSelfRelation means an identity tried to follow or block itself.
	ErrSelfRelation = errors.New("self relation denied")

	// ErrBlockedParty means a follow was attempted against an identity the
	// follower has blocked.
	ErrBlockedParty = errors.New("target is blocked by follower")

	// ErrNotFollowing means an unfollow was attempted without an existing
	// follow relation.
	ErrNotFollowing = errors.New("follow relation does not exist")

	// ErrNotBlocked means an unblock was attempted without an existing
	// block relation.
	ErrNotBlocked = errors.New("block relation does not exist")
)
