package tablesplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEvenlyScenarioA(t *testing.T) {
	// min=1, max=100, N=100, split_size=10, stride=10 -> 10 chunks
	chunks, err := chunkEvenly(intKey(1), intKey(100), 100, 10, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 10)

	assert.True(t, chunks[0].IsFirst())
	assert.Equal(t, int64(11), chunks[0].End.i)

	assert.Equal(t, int64(11), chunks[1].Start.i)
	assert.Equal(t, int64(21), chunks[1].End.i)

	last := chunks[len(chunks)-1]
	assert.True(t, last.IsLast())
	assert.Equal(t, int64(91), last.Start.i)
}

func TestChunkEvenlySmallTableIsFullScan(t *testing.T) {
	chunks, err := chunkEvenly(intKey(1), intKey(5), 5, 10, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].IsFullScan())
}

func TestChunkEvenlyOverflowClosesEarly(t *testing.T) {
	// Scenario E: stride addition overflows near the domain max. The
	// loop must terminate gracefully and the closing chunk must absorb
	// the remainder rather than propagate an error.
	nearMax := NewIntKey(KindInt8, 120)
	domainMax := NewIntKey(KindInt8, 127)
	chunks, err := chunkEvenly(nearMax, domainMax, 100, 10, 20)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].IsFullScan(), "immediate overflow with no prior chunk falls back to a full scan")
}

func TestChunkEvenlyCoversEveryIntegerExactlyOnce(t *testing.T) {
	min, max := int64(1), int64(97)
	chunks, err := chunkEvenly(intKey(min), intKey(max), 97, 10, 10)
	require.NoError(t, err)

	covered := map[int64]int{}
	for v := min; v <= max; v++ {
		for _, c := range chunks {
			s := wrapRange(c)
			if s.covers(v) {
				covered[v]++
			}
		}
	}
	for v := min; v <= max; v++ {
		assert.Equalf(t, 1, covered[v], "value %d must be covered by exactly one chunk", v)
	}
}

// wrapRange and covers are small test-only helpers wrapping a ChunkRange
// with the integer-membership check the coverage property needs.
type testRangeChecker struct {
	r ChunkRange
}

func wrapRange(r ChunkRange) testRangeChecker {
	return testRangeChecker{r: r}
}

func (c testRangeChecker) covers(v int64) bool {
	if c.r.Start != nil && v < c.r.Start.i {
		return false
	}
	if c.r.End != nil {
		if c.r.IsFirst() {
			// first chunk predicate: col <= end AND col != end
			return v <= c.r.End.i && v != c.r.End.i
		}
		if v >= c.r.End.i {
			return false
		}
	}
	return true
}
