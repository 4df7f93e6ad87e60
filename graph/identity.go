package graph

// Identity is an opaque, externally issued account identifier. The graph
// never creates or destroys identities; it only keys records by them.
type Identity string

// MetadataSize is the fixed size of the per-identity metadata blob.
const MetadataSize = 32

// Metadata is an opaque per-identity blob. An identity that never set
// metadata reads back as the zero blob.
type Metadata [MetadataSize]byte

func (m Metadata) IsZero() bool {
	return m == Metadata{}
}
