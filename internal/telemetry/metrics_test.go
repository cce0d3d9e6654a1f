package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyToBucket_Thresholds(t *testing.T) {
	assert.Equal(t, BucketP10, LatencyToBucket(500*time.Microsecond))
	assert.Equal(t, BucketP50, LatencyToBucket(2*time.Millisecond))
	assert.Equal(t, BucketP100, LatencyToBucket(7*time.Millisecond))
	assert.Equal(t, BucketP500, LatencyToBucket(20*time.Millisecond))
	assert.Equal(t, BucketP1000, LatencyToBucket(100*time.Millisecond))
}

func TestCircularBuffer_EvictsOldestWhenFull(t *testing.T) {
	buf := NewCircularBuffer[int](3)
	buf.Add(1)
	buf.Add(2)
	buf.Add(3)
	buf.Add(4)

	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, []int{2, 3, 4}, buf.Items())
}

func TestCircularBuffer_PartiallyFilled(t *testing.T) {
	buf := NewCircularBuffer[string](5)
	buf.Add("a")
	buf.Add("b")

	assert.Equal(t, 2, buf.Size())
	assert.Equal(t, []string{"a", "b"}, buf.Items())
}

func TestMetrics_RecordHitAndMiss(t *testing.T) {
	m := New()
	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.TouchHits)
	assert.EqualValues(t, 1, snap.TouchMisses)
	assert.InDelta(t, 2.0/3.0, snap.HitRate(), 1e-9)
}

func TestMetrics_HitRateWithNoTouches(t *testing.T) {
	m := New()
	assert.Equal(t, float64(0), m.Snapshot().HitRate())
}

func TestMetrics_RecordEviction(t *testing.T) {
	m := New()
	m.RecordEviction()
	m.RecordEviction()

	assert.EqualValues(t, 2, m.Snapshot().Evictions)
}

func TestMetrics_ResidentHighWaterTracksMax(t *testing.T) {
	m := New()
	m.RecordResidentSize(3)
	m.RecordResidentSize(10)
	m.RecordResidentSize(5)

	assert.Equal(t, 10, m.Snapshot().ResidentHighWater)
}

func TestMetrics_RecordLatencyBucketsCorrectly(t *testing.T) {
	m := New()
	m.RecordLatency(500 * time.Microsecond)
	m.RecordLatency(2 * time.Millisecond)
	m.RecordLatency(600 * time.Microsecond)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.LatencyDistribution[BucketP10])
	assert.EqualValues(t, 1, snap.LatencyDistribution[BucketP50])
}

func TestMetrics_SnapshotIsIndependentCopy(t *testing.T) {
	m := New()
	m.RecordLatency(1 * time.Millisecond)

	snap := m.Snapshot()
	m.RecordLatency(1 * time.Millisecond)

	assert.EqualValues(t, 1, snap.LatencyDistribution[BucketP50])
}

func TestMetrics_RecentLatenciesTracksRawSamplesInOrder(t *testing.T) {
	m := New()
	m.RecordLatency(1 * time.Millisecond)
	m.RecordLatency(2 * time.Millisecond)
	m.RecordLatency(3 * time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, snap.RecentLatencies)
}

func TestMetrics_RecentLatenciesIsBounded(t *testing.T) {
	m := New()
	for i := 0; i < recentLatencyCapacity+10; i++ {
		m.RecordLatency(time.Duration(i) * time.Microsecond)
	}

	snap := m.Snapshot()
	assert.Len(t, snap.RecentLatencies, recentLatencyCapacity)
	assert.Equal(t, 10*time.Microsecond, snap.RecentLatencies[0])
}
