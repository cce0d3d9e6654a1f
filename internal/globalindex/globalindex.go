// Package globalindex implements the Global Index: the per-chunk totals
// and their prefix sum that convert between a global pixel offset and a
// (chunk_index, intra-chunk offset) pair. It is backed by a Fenwick tree
// (binary indexed tree) over chunk_totals, per the re-architecture note
// in the size-index design: updates and prefix-sum queries run in
// O(log num_chunks), and offset lookups (a binary search over prefix-sum
// queries) in O(log^2 num_chunks), instead of the O(num_chunks) a flat
// prefix array would cost once the chunk count grows past a few thousand.
package globalindex

import (
	"sort"

	"github.com/aman-cerp/vlist/internal/errors"
)

// Index is the Global Index: a Fenwick tree over per-chunk totals plus
// the running grand total.
type Index struct {
	// tree is 1-indexed internally; tree[0] is unused.
	tree       []float64
	chunkTotal []float64
	numChunks  uint32
	grandTotal float64
}

// New builds an Index for numChunks chunks, each initialized to
// initialTotal (length(c) * estimated_size for a freshly constructed or
// fully virtual list).
func New(numChunks uint32, initialTotal func(chunkIndex uint32) float64) *Index {
	idx := &Index{
		tree:       make([]float64, numChunks+1),
		chunkTotal: make([]float64, numChunks),
		numChunks:  numChunks,
	}
	for c := uint32(0); c < numChunks; c++ {
		idx.add(c, initialTotal(c))
		idx.chunkTotal[c] = initialTotal(c)
		idx.grandTotal += initialTotal(c)
	}
	return idx
}

// NumChunks returns the number of chunks the index currently covers.
func (idx *Index) NumChunks() uint32 {
	return idx.numChunks
}

// add applies a delta to the Fenwick tree at 0-indexed position pos.
func (idx *Index) add(pos uint32, delta float64) {
	for i := pos + 1; i <= idx.numChunks; i += lowbit(i) {
		idx.tree[i] += delta
	}
}

// prefixSum returns the sum of chunk_totals[0..pos) (exclusive of pos).
func (idx *Index) prefixSum(pos uint32) float64 {
	var sum float64
	for i := pos; i > 0; i -= lowbit(i) {
		sum += idx.tree[i]
	}
	return sum
}

func lowbit(x uint32) uint32 {
	return x & (-x)
}

// RecomputeFor sets chunk_totals[c] = newTotal and repairs the Fenwick
// tree and grand total accordingly.
func (idx *Index) RecomputeFor(c uint32, newTotal float64) error {
	if c >= idx.numChunks {
		return errors.OutOfBounds("chunk index out of range")
	}
	delta := newTotal - idx.chunkTotal[c]
	idx.add(c, delta)
	idx.chunkTotal[c] = newTotal
	idx.grandTotal += delta
	return nil
}

// ChunkPrefix returns chunk_prefix[c]: the sum of all chunk totals for
// chunks strictly before c. ChunkPrefix(NumChunks()) equals TotalSize().
func (idx *Index) ChunkPrefix(c uint32) float64 {
	return idx.prefixSum(c)
}

// ChunkTotal returns the current total for chunk c.
func (idx *Index) ChunkTotal(c uint32) float64 {
	if c >= idx.numChunks {
		return 0
	}
	return idx.chunkTotal[c]
}

// FindChunkResult is the result of locating the chunk containing a global
// offset.
type FindChunkResult struct {
	Chunk    uint32
	Residual float64
}

// FindChunk returns the largest chunk index c such that chunk_prefix[c]
// <= offset, along with the residual distance into that chunk. Offsets
// at or past the grand total clamp to the last chunk's end.
func (idx *Index) FindChunk(offset float64) FindChunkResult {
	if idx.numChunks == 0 {
		return FindChunkResult{Chunk: 0, Residual: 0}
	}
	if offset >= idx.grandTotal {
		last := idx.numChunks - 1
		return FindChunkResult{Chunk: last, Residual: idx.chunkTotal[last]}
	}

	// Binary search over chunk_prefix via repeated prefixSum queries:
	// O(log num_chunks) steps of O(log num_chunks) each.
	c := uint32(sort.Search(int(idx.numChunks), func(i int) bool {
		return idx.prefixSum(uint32(i)+1) > offset
	}))
	if c >= idx.numChunks {
		c = idx.numChunks - 1
	}
	return FindChunkResult{Chunk: c, Residual: offset - idx.prefixSum(c)}
}

// TotalSize returns the grand total across every chunk without touching
// any chunk.
func (idx *Index) TotalSize() float64 {
	return idx.grandTotal
}

// Resize rebuilds the index for a new chunk count, using initialTotal to
// seed any newly added chunks. Used by set_total_items.
func (idx *Index) Resize(numChunks uint32, initialTotal func(chunkIndex uint32) float64) {
	newIdx := New(numChunks, func(c uint32) float64 {
		if c < idx.numChunks {
			return idx.chunkTotal[c]
		}
		return initialTotal(c)
	})
	*idx = *newIdx
}
