// Package sizing provides block arithmetic and overflow-checked addition.
package sizing

import "math"

// BlockSize is the size of every unit written to or read from an archive.
const BlockSize = 512

// Blocks returns the number of blocks needed to hold size bytes.
func Blocks(size int64) int64 {
	if size <= 0 {
		return 0
	}
	return (size + BlockSize - 1) / BlockSize
}

// Padding returns the number of zero bytes that follow size bytes of content
// to reach the next block boundary, where 0 <= n < BlockSize.
func Padding(size int64) int64 {
	return -size & (BlockSize - 1)
}

// AddInt64 adds two non-negative int64 values, returning (result, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
