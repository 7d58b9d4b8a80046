package task

import "github.com/rs/xid"

// IDGenerator produces task IDs.
type IDGenerator func() string

// NewID creates a unique task ID.
// An xid packs a timestamp, a machine and process component and a counter
// seeded from crypto/rand, so IDs generated in a tight loop never collide.
func NewID() string {
	return xid.New().String()
}
