// Package store provides the durable backends for the social graph: an
// in-process map store, a Redis store, and a Postgres store. All three
// implement graph.Store with the same observable semantics.
package store

import "socialgraph/graph"

var (
	_ graph.Store = (*MemoryStore)(nil)
	_ graph.Store = (*RedisStore)(nil)
	_ graph.Store = (*PostgresStore)(nil)
)
