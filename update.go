package minitar

import (
	"context"
	"fmt"
	"strings"

	"github.com/meigma/minitar/internal/namelist"
)

// Update appends new copies of members that are already in the archive.
//
// Every requested name must already be a member; otherwise Update returns
// ErrFileNotInArchive without modifying the archive. Old copies stay in the
// archive. Extract writes members in stream order, so the appended copies
// win.
func Update(ctx context.Context, archivePath string, members []string, opts ...Option) error {
	cfg := newConfig(opts)

	present, err := listMembers(cfg, archivePath)
	if err != nil {
		return err
	}
	if req := namelist.New(members...); !req.SubsetOf(present) {
		missing := req.Missing(present)
		return fmt.Errorf("%w: %s: %s", ErrFileNotInArchive, archivePath, strings.Join(missing, ", "))
	}

	return appendMembers(ctx, cfg, archivePath, members)
}
