package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle is the opaque back-reference an entity keeps to its owning
// container: the container's id plus the entity's own index. It is a weak
// relation, not ownership; resolving a handle goes through the container.
type Handle struct {
	Container uuid.UUID
	Index     int64
}

// IsZero reports whether the handle has never been assigned.
func (h Handle) IsZero() bool {
	return h.Container == uuid.Nil && h.Index == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Container, h.Index)
}
