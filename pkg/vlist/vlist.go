// Package vlist is the public API of an in-memory viewport size-index for
// virtualized, variable-size lists: it tracks per-item pixel sizes across
// an unbounded item count, keeps a bounded resident working set of
// measured chunks, and resolves a scroll position and viewport extent to
// the contiguous range of items intersecting it.
//
// A List is not safe for concurrent use; callers must serialize access,
// matching the single-threaded cooperative model it is designed for (a
// browser's main thread driving a virtualized scroll container).
package vlist

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/aman-cerp/vlist/internal/chunk"
	"github.com/aman-cerp/vlist/internal/chunkstore"
	"github.com/aman-cerp/vlist/internal/config"
	vlisterrors "github.com/aman-cerp/vlist/internal/errors"
	"github.com/aman-cerp/vlist/internal/globalindex"
	"github.com/aman-cerp/vlist/internal/resolver"
	"github.com/aman-cerp/vlist/internal/telemetry"
)

// Re-exported so callers never need to import the internal packages
// directly to spell a return type.
type (
	VisibleRange = resolver.VisibleRange
	Orientation  = config.Orientation
)

const (
	OrientationVertical   = config.OrientationVertical
	OrientationHorizontal = config.OrientationHorizontal
)

// Update is a single item-size revision for BatchUpdateSizes.
type Update struct {
	Index uint32
	Size  float64
}

// Params configures a new List. Config is optional; a nil Config falls
// back to config.NewDefault(). Logger and Metrics are optional observers.
type Params struct {
	TotalItems    uint32
	ChunkCapacity uint32
	EstimatedSize float64
	Orientation   Orientation
	Config        *config.Config
	Logger        *slog.Logger
	Metrics       *telemetry.Metrics
}

// List is the composed viewport size-index: Config plus a Chunk Store, a
// Global Index, and the Viewport Resolver.
type List struct {
	chunkCapacity uint32
	estimatedSize float64
	orientation   Orientation
	bufferItems   uint32
	overscanItems uint32

	totalItems uint32

	store   *chunkstore.Store
	index   *globalindex.Index
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// New constructs a List for totalItems items, chunked at chunkCapacity,
// with every item initialized to estimatedSize until measured.
func New(p Params) (*List, error) {
	if p.ChunkCapacity == 0 {
		return nil, vlisterrors.InvalidArgument("chunk_capacity must be >= 1")
	}
	if p.EstimatedSize <= 0 || math.IsNaN(p.EstimatedSize) || math.IsInf(p.EstimatedSize, 0) {
		return nil, vlisterrors.InvalidArgument("estimated_size must be a positive finite number")
	}
	switch p.Orientation {
	case "":
		p.Orientation = config.OrientationVertical
	case config.OrientationVertical, config.OrientationHorizontal:
	default:
		return nil, vlisterrors.InvalidArgument("orientation must be vertical or horizontal")
	}

	cfg := p.Config
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &List{
		chunkCapacity: p.ChunkCapacity,
		estimatedSize: p.EstimatedSize,
		orientation:   p.Orientation,
		bufferItems:   cfg.BufferItems,
		overscanItems: cfg.OverscanItems,
		totalItems:    p.TotalItems,
		logger:        logger,
		metrics:       p.Metrics,
	}

	numChunks := numChunksFor(p.TotalItems, p.ChunkCapacity)
	l.index = globalindex.New(numChunks, func(c uint32) float64 {
		return float64(l.lengthFor(c, numChunks)) * l.estimatedSize
	})

	store, err := chunkstore.New(cfg.MaxResidentChunks, p.ChunkCapacity, p.EstimatedSize, l.onChunkEvicted, logger, p.Metrics)
	if err != nil {
		return nil, err
	}
	l.store = store
	l.store.Reconfigure(numChunks, lastChunkLenFor(p.TotalItems, p.ChunkCapacity, numChunks))

	return l, nil
}

// onChunkEvicted reverts the evicted chunk's global total back to its
// virtual estimate: once a chunk leaves residency, whatever per-item
// revisions it carried are lost, exactly as if it had never been touched.
func (l *List) onChunkEvicted(chunkIndex uint32, length int) {
	virtualTotal := float64(length) * l.estimatedSize
	_ = l.index.RecomputeFor(chunkIndex, virtualTotal)
}

// UpdateItemSize revises the size of a single item.
func (l *List) UpdateItemSize(index uint32, size float64) error {
	if index >= l.totalItems {
		return vlisterrors.OutOfBounds("item index out of range").
			WithDetail("index", strconv.FormatUint(uint64(index), 10)).
			WithDetail("total_items", strconv.FormatUint(uint64(l.totalItems), 10))
	}
	if err := validateSize(size); err != nil {
		return err
	}

	c := index / l.chunkCapacity
	intra := int(index % l.chunkCapacity)

	chunkObj := l.store.Touch(c)
	if _, err := chunkObj.SetSize(intra, size); err != nil {
		return err
	}
	return l.index.RecomputeFor(c, chunkObj.Total())
}

// BatchUpdateSizes applies every update in updates, grouped by chunk and
// applied with a single rebuild per chunk. All-or-nothing: if any entry
// fails validation, no chunk is modified.
func (l *List) BatchUpdateSizes(updates []Update) error {
	for _, u := range updates {
		if u.Index >= l.totalItems {
			return vlisterrors.OutOfBounds("item index out of range").
				WithDetail("index", strconv.FormatUint(uint64(u.Index), 10)).
				WithDetail("total_items", strconv.FormatUint(uint64(l.totalItems), 10))
		}
		if err := validateSize(u.Size); err != nil {
			return err
		}
	}

	groups := make(map[uint32][]chunk.Update)
	var order []uint32
	for _, u := range updates {
		c := u.Index / l.chunkCapacity
		intra := int(u.Index % l.chunkCapacity)
		if _, ok := groups[c]; !ok {
			order = append(order, c)
		}
		groups[c] = append(groups[c], chunk.Update{Intra: intra, Size: u.Size})
	}

	for _, c := range order {
		chunkObj := l.store.Touch(c)
		if _, err := chunkObj.BatchSet(groups[c]); err != nil {
			return err
		}
		if err := l.index.RecomputeFor(c, chunkObj.Total()); err != nil {
			return err
		}
	}
	return nil
}

// GetVisibleRange runs the Viewport Resolver for a scroll position and
// viewport extent, recording its latency if a Metrics collector is set.
func (l *List) GetVisibleRange(scroll, viewport float64) (VisibleRange, error) {
	started := time.Now()
	r, err := resolver.Resolve(l.index, l.store, resolver.Params{
		ChunkCapacity: l.chunkCapacity,
		TotalItems:    l.totalItems,
		BufferItems:   l.bufferItems,
		OverscanItems: l.overscanItems,
	}, scroll, viewport)
	if l.metrics != nil {
		l.metrics.RecordLatency(time.Since(started))
	}
	return r, err
}

// TotalSize returns the grand total pixel size across every item.
func (l *List) TotalSize() float64 {
	return l.index.TotalSize()
}

// SetTotalItems grows or shrinks the list to n items, extending or
// truncating the chunk that straddles the old boundary and appending or
// dropping whole chunks as needed.
func (l *List) SetTotalItems(n uint32) error {
	if n == l.totalItems {
		return nil
	}
	if n > l.totalItems {
		return l.grow(n)
	}
	return l.shrink(n)
}

// grow handles set_total_items(n) for n > total_items. Resize itself
// preserves every existing chunk's total unchanged and seeds only the
// newly appended chunks; the one existing chunk whose length can change
// as a side effect of growth is the previous last chunk (it may have been
// short), so that one is fixed up with an explicit RecomputeFor after.
func (l *List) grow(n uint32) error {
	oldTotal, oldNumChunks := l.totalItems, numChunksFor(l.totalItems, l.chunkCapacity)
	newNumChunks := numChunksFor(n, l.chunkCapacity)
	newLastLen := lastChunkLenFor(n, l.chunkCapacity, newNumChunks)

	var revisedBoundaryTotal *float64
	var boundaryIdx uint32
	if oldNumChunks > 0 {
		boundaryIdx = oldNumChunks - 1
		lengthBefore := lastChunkLenFor(oldTotal, l.chunkCapacity, oldNumChunks)
		lengthAfter := int(l.chunkCapacity)
		if newNumChunks == oldNumChunks {
			lengthAfter = newLastLen
		}
		if lengthAfter != lengthBefore {
			if resident := l.store.Peek(boundaryIdx); resident != nil {
				if err := resident.Grow(lengthAfter, l.estimatedSize); err != nil {
					return err
				}
				t := resident.Total()
				revisedBoundaryTotal = &t
			} else {
				t := float64(lengthAfter) * l.estimatedSize
				revisedBoundaryTotal = &t
			}
		}
	}

	l.index.Resize(newNumChunks, func(c uint32) float64 {
		length := int(l.chunkCapacity)
		if c == newNumChunks-1 {
			length = newLastLen
		}
		return float64(length) * l.estimatedSize
	})
	if revisedBoundaryTotal != nil {
		if err := l.index.RecomputeFor(boundaryIdx, *revisedBoundaryTotal); err != nil {
			return err
		}
	}

	l.totalItems = n
	l.store.Reconfigure(newNumChunks, newLastLen)
	return nil
}

// shrink handles set_total_items(n) for n < total_items. Resize never
// invokes its seed callback here (every surviving index is below the old
// chunk count, which Resize preserves verbatim), so the new last chunk's
// truncated length is fixed up afterward, and any chunk beyond the new
// count is dropped from residency without reverting its total (it no
// longer exists at all, rather than reverting to a virtual estimate).
func (l *List) shrink(n uint32) error {
	oldNumChunks := numChunksFor(l.totalItems, l.chunkCapacity)
	newNumChunks := numChunksFor(n, l.chunkCapacity)
	newLastLen := lastChunkLenFor(n, l.chunkCapacity, newNumChunks)

	var revisedLastTotal *float64
	if newNumChunks > 0 {
		newLastIdx := newNumChunks - 1
		oldLengthOfNewLastIdx := l.lengthFor(newLastIdx, oldNumChunks)
		if newLastLen < oldLengthOfNewLastIdx {
			if resident := l.store.Peek(newLastIdx); resident != nil {
				if err := resident.Shrink(newLastLen); err != nil {
					return err
				}
				t := resident.Total()
				revisedLastTotal = &t
			} else {
				t := float64(newLastLen) * l.estimatedSize
				revisedLastTotal = &t
			}
		}
	}

	l.index.Resize(newNumChunks, func(c uint32) float64 {
		return float64(l.chunkCapacity) * l.estimatedSize
	})
	if revisedLastTotal != nil {
		if err := l.index.RecomputeFor(newNumChunks-1, *revisedLastTotal); err != nil {
			return err
		}
	}

	l.store.ForgetAbove(newNumChunks)
	l.totalItems = n
	l.store.Reconfigure(newNumChunks, newLastLen)

	l.logger.Debug("list shrunk, dropping trailing chunks", "new_total_items", n, "new_num_chunks", newNumChunks)
	return nil
}

// UnloadChunk evicts a chunk from residency, reverting its contribution to
// the virtual estimate. Silently does nothing if chunkIndex is out of
// range or not currently resident.
func (l *List) UnloadChunk(chunkIndex uint32) {
	if chunkIndex >= numChunksFor(l.totalItems, l.chunkCapacity) {
		return
	}
	l.store.Unload(chunkIndex)
}

// Metrics returns a point-in-time snapshot of the list's telemetry, or nil
// if no Metrics collector was configured.
func (l *List) Metrics() *telemetry.Snapshot {
	if l.metrics == nil {
		return nil
	}
	return l.metrics.Snapshot()
}

func (l *List) lengthFor(chunkIndex, numChunks uint32) int {
	if numChunks > 0 && chunkIndex == numChunks-1 {
		return lastChunkLenFor(l.totalItems, l.chunkCapacity, numChunks)
	}
	return int(l.chunkCapacity)
}

func numChunksFor(totalItems, chunkCapacity uint32) uint32 {
	if totalItems == 0 {
		return 0
	}
	return (totalItems + chunkCapacity - 1) / chunkCapacity
}

func lastChunkLenFor(totalItems, chunkCapacity, numChunks uint32) int {
	if numChunks == 0 {
		return 0
	}
	return int(totalItems - (numChunks-1)*chunkCapacity)
}

func validateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return vlisterrors.InvalidSize("item size must be a non-negative finite number")
	}
	return nil
}
