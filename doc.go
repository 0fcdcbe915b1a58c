// Package minitar reads and writes archives in a simplified tar format.
//
// An archive is a sequence of members. Each member is a 512-byte header
// followed by its content, padded with zeros to a 512-byte boundary. Two
// all-zero blocks end the archive:
//
//	header | content blocks | header | content blocks | ... | footer (1024 zero bytes)
//
// Headers use the ustar layout with every numeric field stored as
// NUL-terminated zero-padded octal, so archives written here can be read by
// standard tar tools. Only regular files are supported.
//
// # Operations
//
//	err := minitar.Create(ctx, "out.tar", []string{"a.txt", "b.txt"})
//	err = minitar.Append(ctx, "out.tar", []string{"c.txt"})
//	names, err := minitar.List("out.tar")
//	err = minitar.Update(ctx, "out.tar", []string{"a.txt"})
//	err = minitar.Extract(ctx, "out.tar", minitar.ExtractWithDir("restore"))
//
// There is no index inside an archive; List and Extract scan headers from the
// start. Append and Update never rewrite existing members. A name added
// twice is stored twice, and Extract, which processes members in order,
// leaves the last copy on disk.
//
// Archives are modified in place with no locking and no rollback. Callers
// must not run operations concurrently against the same archive.
package minitar
