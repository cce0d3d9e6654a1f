// Package chunk implements the fixed-capacity run of consecutive item
// sizes that is the unit of residency in a vlist. A Chunk keeps a cached
// prefix-sum array so that offset/index conversions are fast, and repairs
// that array lazily: mutations only mark it dirty, a single rebuild pass
// happens on the next read.
package chunk

import (
	"math"
	"sort"
	"strconv"

	"github.com/aman-cerp/vlist/internal/errors"
)

// Update is a single intra-chunk size revision.
type Update struct {
	Intra int
	Size  float64
}

// Chunk stores `length` consecutive item sizes and their prefix sums.
type Chunk struct {
	sizes       []float64
	prefix      []float64
	total       float64
	prefixValid bool
	length      int
}

// New constructs a Chunk of the given length with every size initialized
// to estimatedSize, and computes its prefix sum eagerly.
func New(length int, estimatedSize float64) *Chunk {
	c := &Chunk{
		sizes:  make([]float64, length),
		prefix: make([]float64, length+1),
		length: length,
	}
	for i := range c.sizes {
		c.sizes[i] = estimatedSize
	}
	c.rebuild()
	return c
}

// Length returns the number of item slots in the chunk.
func (c *Chunk) Length() int {
	return c.length
}

// GetSize returns the size at intra-chunk index intra.
func (c *Chunk) GetSize(intra int) (float64, error) {
	if intra < 0 || intra >= c.length {
		return 0, errors.OutOfBounds("intra-chunk index out of range").
			WithDetail("intra", strconv.Itoa(intra)).
			WithDetail("length", strconv.Itoa(c.length))
	}
	return c.sizes[intra], nil
}

// SetSize validates and applies a single size revision, returning the
// delta (new - old). The prefix sum is marked dirty, not rebuilt.
func (c *Chunk) SetSize(intra int, newSize float64) (float64, error) {
	if intra < 0 || intra >= c.length {
		return 0, errors.OutOfBounds("intra-chunk index out of range").
			WithDetail("intra", strconv.Itoa(intra)).
			WithDetail("length", strconv.Itoa(c.length))
	}
	if err := validateSize(newSize); err != nil {
		return 0, err
	}

	delta := newSize - c.sizes[intra]
	c.sizes[intra] = newSize
	c.prefixValid = false
	return delta, nil
}

// BatchSet applies multiple intra-chunk updates and rebuilds the prefix
// once. Ordering within the chunk follows input order: later entries for
// the same intra index win. All-or-nothing: if any update fails
// validation, the chunk is left unmodified and an error is returned.
func (c *Chunk) BatchSet(updates []Update) (float64, error) {
	for _, u := range updates {
		if u.Intra < 0 || u.Intra >= c.length {
			return 0, errors.OutOfBounds("intra-chunk index out of range").
				WithDetail("intra", strconv.Itoa(u.Intra)).
				WithDetail("length", strconv.Itoa(c.length))
		}
		if err := validateSize(u.Size); err != nil {
			return 0, err
		}
	}

	var delta float64
	for _, u := range updates {
		delta += u.Size - c.sizes[u.Intra]
		c.sizes[u.Intra] = u.Size
	}
	c.prefixValid = false
	return delta, nil
}

// OffsetAt returns the pixel offset of intra-chunk index intra, i.e. the
// sum of all preceding sizes in this chunk. Rebuilds the prefix if dirty.
func (c *Chunk) OffsetAt(intra int) (float64, error) {
	if intra < 0 || intra > c.length {
		return 0, errors.OutOfBounds("intra-chunk index out of range").
			WithDetail("intra", strconv.Itoa(intra)).
			WithDetail("length", strconv.Itoa(c.length))
	}
	c.ensureValid()
	return c.prefix[intra], nil
}

// FindIntraResult is the result of a FindIntra search.
type FindIntraResult struct {
	Intra    int
	Residual float64
}

// FindIntra finds the largest intra-chunk index k such that prefix[k] <=
// offset, clamped to length-1 when offset exceeds the chunk total. When
// several leading edges sit exactly at offset (zero-size items), the
// lowest such k is returned, so FindIntra(prefix[k]) is always k.
// Residual is the remaining distance past that item's leading edge.
func (c *Chunk) FindIntra(offset float64) FindIntraResult {
	c.ensureValid()

	if offset >= c.total {
		last := c.length - 1
		if last < 0 {
			last = 0
		}
		return FindIntraResult{Intra: last, Residual: offset - c.prefix[last]}
	}

	// prefix[k] <= offset, ties toward the lower index: sort.Search finds
	// the first index where prefix[idx] >= offset; an exact hit is our k,
	// otherwise idx-1 is.
	idx := sort.Search(len(c.prefix), func(i int) bool {
		return c.prefix[i] >= offset
	})
	k := idx
	if idx >= len(c.prefix) || c.prefix[idx] != offset {
		k = idx - 1
	}
	if k < 0 {
		k = 0
	}
	if k > c.length-1 {
		k = c.length - 1
	}
	return FindIntraResult{Intra: k, Residual: offset - c.prefix[k]}
}

// FindIntraBefore finds the largest intra-chunk index k such that
// prefix[k] < offset (strict), returning -1 if no item's leading edge
// lies strictly before offset. Used by the viewport resolver to locate
// the last fully-or-partially visible item: unlike FindIntra, an exact
// boundary hit does not belong to the item starting there, since that
// item has zero overlap with a viewport ending at that offset.
func (c *Chunk) FindIntraBefore(offset float64) int {
	c.ensureValid()

	idx := sort.Search(len(c.prefix), func(i int) bool {
		return c.prefix[i] >= offset
	})
	k := idx - 1
	if k >= c.length {
		k = c.length - 1
	}
	return k
}

// Grow extends the chunk to newLength items, appending estimatedSize for
// each new slot while preserving existing sizes. Used when
// set_total_items grows the list through a chunk that was previously
// short (the final chunk of a smaller list).
func (c *Chunk) Grow(newLength int, estimatedSize float64) error {
	if newLength < c.length {
		return errors.InvalidArgument("grow target length must be >= current length").
			WithDetail("new_length", strconv.Itoa(newLength)).
			WithDetail("length", strconv.Itoa(c.length))
	}
	if newLength == c.length {
		return nil
	}
	for i := c.length; i < newLength; i++ {
		c.sizes = append(c.sizes, estimatedSize)
	}
	c.length = newLength
	c.prefix = make([]float64, newLength+1)
	c.prefixValid = false
	return nil
}

// Shrink truncates the chunk to newLength items, discarding any sizes
// beyond it. Used when set_total_items shrinks the list through a
// resident chunk: any updates applied to dropped items are lost.
func (c *Chunk) Shrink(newLength int) error {
	if newLength > c.length {
		return errors.InvalidArgument("shrink target length must be <= current length").
			WithDetail("new_length", strconv.Itoa(newLength)).
			WithDetail("length", strconv.Itoa(c.length))
	}
	if newLength == c.length {
		return nil
	}
	c.sizes = c.sizes[:newLength]
	c.length = newLength
	c.prefix = make([]float64, newLength+1)
	c.prefixValid = false
	return nil
}

// Total returns the chunk's cumulative size, rebuilding the prefix first
// if dirty.
func (c *Chunk) Total() float64 {
	c.ensureValid()
	return c.total
}

func (c *Chunk) ensureValid() {
	if !c.prefixValid {
		c.rebuild()
	}
}

// rebuild recomputes the prefix array in strict left-to-right order so
// that two chunks fed the same update sequence produce bit-identical
// prefixes.
func (c *Chunk) rebuild() {
	c.prefix[0] = 0
	for i := 0; i < c.length; i++ {
		c.prefix[i+1] = c.prefix[i] + c.sizes[i]
	}
	c.total = c.prefix[c.length]
	c.prefixValid = true
}

func validateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return errors.InvalidSize("item size must be a non-negative finite number")
	}
	return nil
}

