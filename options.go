package minitar

import "log/slog"

// config holds settings shared by all archive operations.
type config struct {
	logger          *slog.Logger
	metadata        MetadataProvider
	progress        ProgressFunc
	verifyChecksums bool

	// Extract only.
	dir           string
	preserveMode  bool
	preserveTimes bool
}

// Option configures an archive operation.
type Option func(*config)

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// log returns the logger, falling back to a discard logger if nil.
func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// metadataProvider returns the configured provider or OSMetadata.
func (c *config) metadataProvider() MetadataProvider {
	if c.metadata == nil {
		return OSMetadata{}
	}
	return c.metadata
}

// reportProgress sends a progress event if a callback is configured.
func (c *config) reportProgress(stage ProgressStage, path string, bytesDone int64, filesDone, filesTotal int) {
	if c.progress == nil {
		return
	}
	c.progress(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  bytesDone,
		FilesDone:  filesDone,
		FilesTotal: filesTotal,
	})
}

// WithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetadataProvider sets the source of file metadata used to build headers.
// The default is OSMetadata.
func WithMetadataProvider(p MetadataProvider) Option {
	return func(c *config) {
		c.metadata = p
	}
}

// WithProgress sets a callback that receives a progress event per member.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithVerifyChecksums makes List, Update and Extract fail with
// ErrInvalidHeader when a header's stored checksum does not match its bytes.
// By default checksums are not verified while scanning.
func WithVerifyChecksums(verify bool) Option {
	return func(c *config) {
		c.verifyChecksums = verify
	}
}

// ExtractWithDir sets the directory members are extracted into.
// By default members are extracted into the current working directory.
func ExtractWithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

// ExtractWithPreserveMode applies the header's permission bits to extracted files.
// By default, modes are not preserved (files use umask defaults).
func ExtractWithPreserveMode(preserve bool) Option {
	return func(c *config) {
		c.preserveMode = preserve
	}
}

// ExtractWithPreserveTimes applies the header's modification time to extracted files.
// By default, times are not preserved (files use current time).
func ExtractWithPreserveTimes(preserve bool) Option {
	return func(c *config) {
		c.preserveTimes = preserve
	}
}
