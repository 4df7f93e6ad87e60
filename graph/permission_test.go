package graph_test

import (
	"testing"

	"socialgraph/graph"
)

var policyTests = []struct {
	value    graph.Permission
	policy   graph.ChatPolicy
	reserved uint32
}{
	{0, graph.PolicyOpen, 0},
	{1, graph.PolicyFollowersOnly, 0},
	{2, graph.PolicyFollowedOnly, 0},
	{3, graph.PolicyMutualOnly, 0},
	{4, graph.PolicyOpen, 4},
	{0xffffffff, graph.PolicyMutualOnly, 0xfffffffc},
	{0x80000002, graph.PolicyFollowedOnly, 0x80000000},
}

func TestPermissionDecoding(t *testing.T) {
	for _, tt := range policyTests {
		if got := tt.value.Policy(); got != tt.policy {
			t.Errorf("Permission(%#x).Policy() = %v, want %v", uint32(tt.value), got, tt.policy)
		}
		if got := tt.value.Reserved(); got != tt.reserved {
			t.Errorf("Permission(%#x).Reserved() = %#x, want %#x", uint32(tt.value), got, tt.reserved)
		}
	}
}

func TestChatPolicyString(t *testing.T) {
	names := map[graph.ChatPolicy]string{
		graph.PolicyOpen:          "open",
		graph.PolicyFollowersOnly: "followers_only",
		graph.PolicyFollowedOnly:  "followed_only",
		graph.PolicyMutualOnly:    "mutual_only",
	}
	for policy, want := range names {
		if got := policy.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", policy, got, want)
		}
	}
}
