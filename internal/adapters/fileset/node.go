package fileset

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/domain"
)

// NodeID is the unique identifier for the glob matcher Graft node.
const NodeID graft.ID = "adapter.fileset"

func init() {
	graft.Register(graft.Node[domain.GlobMatcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (domain.GlobMatcher, error) {
			return New(), nil
		},
	})
}
