package resolver

import (
	"testing"

	"github.com/aman-cerp/vlist/internal/chunk"
	vlisterrors "github.com/aman-cerp/vlist/internal/errors"
	"github.com/aman-cerp/vlist/internal/globalindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal ChunkAccessor backed by an in-memory map, used so
// resolver tests don't need the full chunkstore/LRU machinery.
type fakeStore struct {
	chunks map[uint32]*chunk.Chunk
	length func(chunkIndex uint32) int
	size   float64
}

func (f *fakeStore) Touch(chunkIndex uint32) *chunk.Chunk {
	if c, ok := f.chunks[chunkIndex]; ok {
		return c
	}
	c := chunk.New(f.length(chunkIndex), f.size)
	f.chunks[chunkIndex] = c
	return c
}

func uniform(totalItems, chunkCapacity uint32, estimatedSize float64) (*globalindex.Index, *fakeStore) {
	numChunks := (totalItems + chunkCapacity - 1) / chunkCapacity
	lengthFor := func(c uint32) int {
		if c == numChunks-1 {
			last := int(totalItems - (numChunks-1)*chunkCapacity)
			return last
		}
		return int(chunkCapacity)
	}
	idx := globalindex.New(numChunks, func(c uint32) float64 {
		return float64(lengthFor(c)) * estimatedSize
	})
	store := &fakeStore{chunks: map[uint32]*chunk.Chunk{}, length: lengthFor, size: estimatedSize}
	return idx, store
}

func TestResolve_UniformListScenario(t *testing.T) {
	idx, store := uniform(1000, 100, 30)
	p := Params{ChunkCapacity: 100, TotalItems: 1000, BufferItems: 0, OverscanItems: 0}

	r, err := Resolve(idx, store, p, 0, 90)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(0, 3, 0, 90), r)

	r, err = Resolve(idx, store, p, 150, 90)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(5, 8, 150, 240), r)
}

func TestResolve_SingleItemUpdateScenario(t *testing.T) {
	idx, store := uniform(1000, 100, 30)
	p := Params{ChunkCapacity: 100, TotalItems: 1000, BufferItems: 0, OverscanItems: 0}

	c := store.Touch(0)
	delta, err := c.SetSize(0, 60)
	require.NoError(t, err)
	require.NoError(t, idx.RecomputeFor(0, c.Total()))
	assert.Equal(t, float64(30), delta)

	assert.Equal(t, float64(30030), idx.TotalSize())

	r, err := Resolve(idx, store, p, 0, 90)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(0, 2, 0, 90), r)
}

func TestResolve_BatchUpdateWithReorderScenario(t *testing.T) {
	idx, store := uniform(1000, 100, 30)

	c := store.Touch(0)
	_, err := c.SetSize(0, 60)
	require.NoError(t, err)
	require.NoError(t, idx.RecomputeFor(0, c.Total()))

	_, err = c.BatchSet([]chunk.Update{{Intra: 2, Size: 50}, {Intra: 1, Size: 40}, {Intra: 2, Size: 70}})
	require.NoError(t, err)
	require.NoError(t, idx.RecomputeFor(0, c.Total()))

	offset3, err := OffsetOfItem(idx, store, 100, 1000, 3)
	require.NoError(t, err)
	assert.Equal(t, float64(60+40+70), offset3)
}

func TestResolve_GrowListScenario(t *testing.T) {
	idx, store := uniform(10, 4, 10)
	assert.Equal(t, float64(100), idx.TotalSize())

	// Growing from 10 to 20 items turns chunk 2 (previously a short,
	// 2-item final chunk) into a full 4-item chunk. Resize only seeds
	// newly added chunks; the caller is responsible for recomputing any
	// existing chunk whose length changed as a side effect of growth.
	idx.Resize(5, func(c uint32) float64 { return 40 })
	require.NoError(t, idx.RecomputeFor(2, 40))
	store.length = func(c uint32) int { return 4 }
	assert.Equal(t, float64(200), idx.TotalSize())

	p := Params{ChunkCapacity: 4, TotalItems: 20, BufferItems: 0, OverscanItems: 0}
	r, err := Resolve(idx, store, p, 90, 40)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(9, 13, 90, 130), r)
}

func TestResolve_EmptyListReturnsZeroRange(t *testing.T) {
	idx, store := uniform(1, 100, 30)
	// Force total_items=0 semantics by asking with TotalItems: 0 directly.
	p := Params{ChunkCapacity: 100, TotalItems: 0, BufferItems: 5, OverscanItems: 3}

	r, err := Resolve(idx, store, p, 123, 45)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(0, 0, 0, 0), r)
}

func TestResolve_ZeroScrollZeroViewportReturnsEmptyRange(t *testing.T) {
	idx, store := uniform(1000, 100, 30)
	p := Params{ChunkCapacity: 100, TotalItems: 1000, BufferItems: 0, OverscanItems: 0}

	r, err := Resolve(idx, store, p, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, resolverExpect(0, 0, 0, 0), r)
}

func TestResolve_RejectsNegativeOrNonFiniteInputs(t *testing.T) {
	idx, store := uniform(1000, 100, 30)
	p := Params{ChunkCapacity: 100, TotalItems: 1000}

	_, err := Resolve(idx, store, p, -1, 10)
	require.Error(t, err)
	assert.True(t, vlisterrors.Is(err, vlisterrors.KindInvalidArgument))

	_, err = Resolve(idx, store, p, 0, -10)
	require.Error(t, err)
}

func TestResolve_AppliesBufferAndOverscan(t *testing.T) {
	idx, store := uniform(1000, 100, 30)
	p := Params{ChunkCapacity: 100, TotalItems: 1000, BufferItems: 2, OverscanItems: 1}

	r, err := Resolve(idx, store, p, 150, 90)
	require.NoError(t, err)

	assert.Equal(t, uint32(5-3), r.Start)
	assert.Equal(t, uint32(8+3), r.End)
}

func TestResolve_ClampsStartAtZeroAndEndAtTotalItems(t *testing.T) {
	idx, store := uniform(10, 4, 10)
	p := Params{ChunkCapacity: 4, TotalItems: 10, BufferItems: 100, OverscanItems: 100}

	r, err := Resolve(idx, store, p, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), r.Start)
	assert.Equal(t, uint32(10), r.End)
}

func resolverExpect(start, end uint32, startOffset, endOffset float64) VisibleRange {
	return VisibleRange{Start: start, End: end, StartOffset: startOffset, EndOffset: endOffset}
}
