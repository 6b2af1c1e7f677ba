package graph

import (
	"github.com/google/uuid"
)

// namespace seeds content-addressed node IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/inset/graph"))

// NodeID is a content-addressed identifier derived from a node's path in
// the source program. The same path always yields the same ID.
type NodeID uuid.UUID

// ZeroID is the zero NodeID.
var ZeroID NodeID

// NewNodeID returns the ID for path, e.g. "profile/square".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, for messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}

func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *NodeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
