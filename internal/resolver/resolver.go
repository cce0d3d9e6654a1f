// Package resolver implements the Viewport Resolver: given a scroll
// position and a viewport extent, it computes the contiguous half-open
// range of item indices intersecting the viewport, plus the pixel
// offsets of its boundaries, applying buffer and overscan padding.
package resolver

import (
	"math"

	"github.com/aman-cerp/vlist/internal/chunk"
	"github.com/aman-cerp/vlist/internal/errors"
	"github.com/aman-cerp/vlist/internal/globalindex"
)

// ChunkLocator is the subset of the Global Index the resolver depends on.
type ChunkLocator interface {
	FindChunk(offset float64) globalindex.FindChunkResult
	ChunkPrefix(c uint32) float64
	TotalSize() float64
}

// ChunkAccessor is the subset of the Chunk Store the resolver depends on.
type ChunkAccessor interface {
	Touch(chunkIndex uint32) *chunk.Chunk
}

// VisibleRange is the half-open item range intersecting a viewport, plus
// the pixel offsets of its boundary items.
type VisibleRange struct {
	Start       uint32
	End         uint32
	StartOffset float64
	EndOffset   float64
}

// Params bundles the list-level constants the resolver needs on every
// call: these never change mid-call but do change across
// set_total_items/config updates, so the caller passes them fresh each
// time rather than the resolver caching stale copies.
type Params struct {
	ChunkCapacity uint32
	TotalItems    uint32
	BufferItems   uint32
	OverscanItems uint32
}

// Resolve runs the Viewport Resolver algorithm for a single scroll and
// viewport-extent pair.
func Resolve(locator ChunkLocator, store ChunkAccessor, p Params, scroll, viewport float64) (VisibleRange, error) {
	if math.IsNaN(scroll) || math.IsInf(scroll, 0) || scroll < 0 {
		return VisibleRange{}, errors.InvalidArgument("scroll position must be a non-negative finite number")
	}
	if math.IsNaN(viewport) || math.IsInf(viewport, 0) || viewport < 0 {
		return VisibleRange{}, errors.InvalidArgument("viewport extent must be a non-negative finite number")
	}

	if p.TotalItems == 0 {
		return VisibleRange{Start: 0, End: 0, StartOffset: 0, EndOffset: 0}, nil
	}

	grandTotal := locator.TotalSize()
	maxScroll := math.Max(0, grandTotal-viewport)
	top := math.Min(math.Max(scroll, 0), maxScroll)
	bottom := top + viewport

	first := locateFirst(locator, store, p.ChunkCapacity, top)
	last := locateLast(locator, store, p.ChunkCapacity, bottom)

	pad := int64(p.BufferItems) + int64(p.OverscanItems)

	start := clampRange(int64(first)-pad, 0, int64(p.TotalItems))
	end := clampRange(last+1+pad, 0, int64(p.TotalItems))
	if start > end {
		start = end
	}

	startU, endU := uint32(start), uint32(end)

	startOffset, err := OffsetOfItem(locator, store, p.ChunkCapacity, p.TotalItems, startU)
	if err != nil {
		return VisibleRange{}, err
	}
	endOffset, err := OffsetOfItem(locator, store, p.ChunkCapacity, p.TotalItems, endU)
	if err != nil {
		return VisibleRange{}, err
	}

	return VisibleRange{Start: startU, End: endU, StartOffset: startOffset, EndOffset: endOffset}, nil
}

// locateFirst finds the item whose span contains a global pixel offset.
// An offset that lands exactly on an item boundary belongs to the item
// starting there (the upper item), matching the Chunk's FindIntra
// contract directly.
func locateFirst(locator ChunkLocator, store ChunkAccessor, chunkCapacity uint32, offset float64) uint32 {
	found := locator.FindChunk(offset)
	c := store.Touch(found.Chunk)
	result := c.FindIntra(found.Residual)
	return found.Chunk*chunkCapacity + uint32(result.Intra)
}

// locateLast finds the trailing item strictly before a global pixel
// offset, as an int64 so that "no item lies before offset" (offset <= 0)
// is representable as -1 rather than wrapping a uint32. The caller adds
// 1 and clamps to produce a half-open range endpoint.
func locateLast(locator ChunkLocator, store ChunkAccessor, chunkCapacity uint32, offset float64) int64 {
	found := locator.FindChunk(offset)
	c := store.Touch(found.Chunk)
	k := c.FindIntraBefore(found.Residual)
	return int64(found.Chunk)*int64(chunkCapacity) + int64(k)
}

// OffsetOfItem returns the global pixel offset of item i: the leading
// edge of item i, i.e. the sum of all item sizes before it. i may equal
// totalItems to mean "one past the last item."
func OffsetOfItem(locator ChunkLocator, store ChunkAccessor, chunkCapacity, totalItems, i uint32) (float64, error) {
	if i > totalItems {
		return 0, errors.OutOfBounds("item index out of range")
	}
	if i == totalItems {
		return locator.TotalSize(), nil
	}

	c := i / chunkCapacity
	intra := i % chunkCapacity
	chunkObj := store.Touch(c)
	offset, err := chunkObj.OffsetAt(int(intra))
	if err != nil {
		return 0, err
	}
	return locator.ChunkPrefix(c) + offset, nil
}

func clampRange(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
