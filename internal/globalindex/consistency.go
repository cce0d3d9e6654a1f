package globalindex

import "github.com/aman-cerp/vlist/internal/errors"

// InconsistencyKind classifies a detected divergence between the Fenwick
// tree and the flat chunk_totals it should agree with.
type InconsistencyKind int

const (
	InconsistencyPrefixMismatch InconsistencyKind = iota
	InconsistencyGrandTotalMismatch
)

func (k InconsistencyKind) String() string {
	switch k {
	case InconsistencyPrefixMismatch:
		return "prefix_mismatch"
	case InconsistencyGrandTotalMismatch:
		return "grand_total_mismatch"
	default:
		return "unknown"
	}
}

// Inconsistency describes one divergence found by Check.
type Inconsistency struct {
	Kind      InconsistencyKind
	ChunkIdx  uint32
	Expected  float64
	Actual    float64
}

// CheckResult is the outcome of a consistency pass.
type CheckResult struct {
	Consistent      bool
	Inconsistencies []Inconsistency
}

// Check verifies that chunk_prefix[c+1] - chunk_prefix[c] equals
// chunk_totals[c] for every chunk, and that chunk_prefix[num_chunks]
// equals the grand total. It is an O(num_chunks log num_chunks)
// diagnostic, not part of any hot path; intended for tests and for a
// host's debug tooling, never called on every mutation.
func (idx *Index) Check() (*CheckResult, error) {
	result := &CheckResult{Consistent: true}

	for c := uint32(0); c < idx.numChunks; c++ {
		prefixDelta := idx.prefixSum(c+1) - idx.prefixSum(c)
		if prefixDelta != idx.chunkTotal[c] {
			result.Consistent = false
			result.Inconsistencies = append(result.Inconsistencies, Inconsistency{
				Kind:     InconsistencyPrefixMismatch,
				ChunkIdx: c,
				Expected: idx.chunkTotal[c],
				Actual:   prefixDelta,
			})
		}
	}

	total := idx.prefixSum(idx.numChunks)
	if total != idx.grandTotal {
		result.Consistent = false
		result.Inconsistencies = append(result.Inconsistencies, Inconsistency{
			Kind:     InconsistencyGrandTotalMismatch,
			Expected: idx.grandTotal,
			Actual:   total,
		})
	}

	if !result.Consistent {
		return result, errors.InternalInvariant("global index failed consistency check")
	}
	return result, nil
}
