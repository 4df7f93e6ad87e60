package graph

// Permission is the 32-bit permission word stored per identity. Only the
// low 2 bits are interpreted (the chat policy); the remaining bits are
// reserved and round-trip untouched through SetPermission/GetPermission.
type Permission uint32

type ChatPolicy uint32

const (
	// PolicyOpen lets anyone contact the receiver.
	PolicyOpen ChatPolicy = iota
	// PolicyFollowersOnly requires the sender to follow the receiver.
	PolicyFollowersOnly
	// PolicyFollowedOnly requires the receiver to follow the sender.
	PolicyFollowedOnly
	// PolicyMutualOnly requires both follow directions.
	PolicyMutualOnly
)

const policyMask = 0x3

func (p Permission) Policy() ChatPolicy {
	return ChatPolicy(p & policyMask)
}

// Reserved returns the bits above the policy field, verbatim.
func (p Permission) Reserved() uint32 {
	return uint32(p) &^ policyMask
}

func (p ChatPolicy) String() string {
	switch p {
	case PolicyOpen:
		return "open"
	case PolicyFollowersOnly:
		return "followers_only"
	case PolicyFollowedOnly:
		return "followed_only"
	case PolicyMutualOnly:
		return "mutual_only"
	}
	return "unknown"
}
