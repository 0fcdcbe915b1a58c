package minitar

import (
	"github.com/meigma/minitar/internal/header"
	"github.com/meigma/minitar/internal/sizing"
)

// Re-export types from internal/header for public API.
type (
	// Header is the decoded metadata record stored before each member's content.
	Header = header.Header
)

// Layout constants.
const (
	// BlockSize is the unit of every archive read and write.
	BlockSize = sizing.BlockSize

	// FooterSize is the length of the zero blocks that end an archive.
	FooterSize = 2 * BlockSize

	// MaxNameLen is the longest member name that fits a header.
	MaxNameLen = header.MaxNameLen
)

// Re-export constant header field values.
const (
	TypeRegular = header.TypeRegular
	Magic       = header.Magic
	Version     = header.Version
)
