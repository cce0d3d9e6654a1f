// Package chunkstore implements the resident working set of Chunks: a
// sparse map from chunk index to Chunk, bounded by an LRU recency
// discipline so memory stays proportional to max_resident_chunks rather
// than to total item count.
package chunkstore

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aman-cerp/vlist/internal/chunk"
	vlisterrors "github.com/aman-cerp/vlist/internal/errors"
	"github.com/aman-cerp/vlist/internal/telemetry"
)

// EvictFunc is invoked whenever a chunk leaves residency, whether because
// the LRU cap evicted it or because the caller asked to unload it
// explicitly. length is the chunk's item count at the time of eviction,
// which the caller needs to compute the reverted virtual total.
type EvictFunc func(chunkIndex uint32, length int)

// Store is the Chunk Store described by the component design: resident
// chunks plus an LRU recency list enforcing a hard cap.
type Store struct {
	cache         *lru.Cache[uint32, *chunk.Chunk]
	chunkCapacity uint32
	estimatedSize float64
	onEvict       EvictFunc
	logger        *slog.Logger
	metrics       *telemetry.Metrics

	// numChunks and lastChunkLen let Store compute the correct length for
	// a chunk at any index, including a possibly-short final chunk.
	numChunks    uint32
	lastChunkLen int

	// suppressEvict silences the EvictFunc/metrics during a Forget* call:
	// those removals drop a chunk that no longer exists at all (set_total
	// _items shrinking past it), not one reverting to a virtual estimate.
	suppressEvict bool
}

// New constructs a Store with the given resident cap, chunk capacity, and
// estimated default size. onEvict is invoked synchronously every time a
// chunk leaves residency through LRU eviction or Unload; removals made by
// ForgetAbove do not invoke it.
func New(maxResidentChunks, chunkCapacity uint32, estimatedSize float64, onEvict EvictFunc, logger *slog.Logger, metrics *telemetry.Metrics) (*Store, error) {
	if maxResidentChunks == 0 {
		return nil, vlisterrors.InvalidArgument("max_resident_chunks must be > 0")
	}
	if chunkCapacity == 0 {
		return nil, vlisterrors.InvalidArgument("chunk_capacity must be > 0")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		chunkCapacity: chunkCapacity,
		estimatedSize: estimatedSize,
		onEvict:       onEvict,
		logger:        logger,
		metrics:       metrics,
	}

	cache, err := lru.NewWithEvict[uint32, *chunk.Chunk](int(maxResidentChunks), func(chunkIndex uint32, c *chunk.Chunk) {
		if s.suppressEvict {
			return
		}
		s.logger.Debug("chunk evicted", "chunk_index", chunkIndex, "length", c.Length())
		if s.metrics != nil {
			s.metrics.RecordEviction()
		}
		if s.onEvict != nil {
			s.onEvict(chunkIndex, c.Length())
		}
	})
	if err != nil {
		return nil, vlisterrors.Wrap(vlisterrors.KindInternalInvariant, err)
	}
	s.cache = cache

	return s, nil
}

// Reconfigure updates the chunk/length bookkeeping used to materialize
// chunks correctly, e.g. after set_total_items changes the list size.
func (s *Store) Reconfigure(numChunks uint32, lastChunkLen int) {
	s.numChunks = numChunks
	s.lastChunkLen = lastChunkLen
}

// lengthFor returns the correct item count for chunkIndex, accounting for
// a possibly-short final chunk.
func (s *Store) lengthFor(chunkIndex uint32) int {
	if s.numChunks > 0 && chunkIndex == s.numChunks-1 {
		return s.lastChunkLen
	}
	return int(s.chunkCapacity)
}

// Touch returns the resident chunk at chunkIndex, materializing it from
// estimated_size if absent, and moves it to the front of the recency
// list. If materialization pushes the resident set over its cap, the LRU
// tail is evicted via the registered EvictFunc before Touch returns.
func (s *Store) Touch(chunkIndex uint32) *chunk.Chunk {
	if c, ok := s.cache.Get(chunkIndex); ok {
		if s.metrics != nil {
			s.metrics.RecordHit()
		}
		return c
	}

	if s.metrics != nil {
		s.metrics.RecordMiss()
	}
	c := s.materialize(chunkIndex)
	s.cache.Add(chunkIndex, c)
	if s.metrics != nil {
		s.metrics.RecordResidentSize(s.cache.Len())
	}
	return c
}

// Peek returns the resident chunk at chunkIndex without touching recency,
// or nil if it is not resident. Used by reconciliation paths that must
// not perturb LRU order.
func (s *Store) Peek(chunkIndex uint32) *chunk.Chunk {
	c, ok := s.cache.Peek(chunkIndex)
	if !ok {
		return nil
	}
	return c
}

// Unload drops chunkIndex if resident, invoking the registered EvictFunc.
// No-op if the chunk is not resident.
func (s *Store) Unload(chunkIndex uint32) {
	s.cache.Remove(chunkIndex)
}

// ForgetAbove drops every resident chunk with index >= threshold without
// invoking EvictFunc or touching metrics: those chunks no longer exist
// after set_total_items shrinks the list, so there is no virtual total to
// revert to, unlike a normal eviction.
func (s *Store) ForgetAbove(threshold uint32) {
	s.suppressEvict = true
	for _, k := range s.cache.Keys() {
		if k >= threshold {
			s.cache.Remove(k)
		}
	}
	s.suppressEvict = false
}

// materialize creates a fresh Chunk with the correct length for its
// position and every size equal to estimated_size.
func (s *Store) materialize(chunkIndex uint32) *chunk.Chunk {
	return chunk.New(s.lengthFor(chunkIndex), s.estimatedSize)
}

// Len returns the number of currently resident chunks.
func (s *Store) Len() int {
	return s.cache.Len()
}

// EstimatedSize returns the store's configured default item size.
func (s *Store) EstimatedSize() float64 {
	return s.estimatedSize
}
