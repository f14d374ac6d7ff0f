package tablesplit

import "context"

// chunkUnevenly implements server-driven boundary discovery, used either
// because the key type isn't evenly-splittable or because it's
// evenly-splittable but below the sample threshold with non-uniform
// distribution.
func chunkUnevenly(ctx context.Context, adapter DatabaseAdapter, table Table, col string, splitSize int64, min, max Key, throttle Throttle) ([]ChunkRange, error) {
	var (
		chunks []ChunkRange
		start  *Key
		count  int
	)

	// The very first boundary is computed relative to min, not the (as
	// yet null) chunk start, matching the server query that ignores
	// anything at or below min.
	end, err := advanceChunkBoundary(ctx, adapter, table, col, splitSize, max, &min)
	if err != nil {
		return nil, err
	}

	for end != nil {
		cmp, err := Compare(*end, max)
		if err != nil {
			return nil, err
		}
		if cmp > 0 {
			break
		}

		chunks = append(chunks, ChunkRange{Start: start, End: end})
		throttle.Tick(table, count)
		count++

		start = end
		end, err = advanceChunkBoundary(ctx, adapter, table, col, splitSize, max, start)
		if err != nil {
			return nil, err
		}
	}

	chunks = append(chunks, ChunkRange{Start: start, End: nil})
	return chunks, nil
}

// advanceChunkBoundary wraps a single NextChunkMax round-trip. A nil
// result means "stop the loop here" - either the adapter genuinely ran
// out of rows, or the no-progress recovery below determined the next
// distinct value is already at or beyond max, in which case the closing
// chunk in chunkUnevenly captures the tail.
func advanceChunkBoundary(ctx context.Context, adapter DatabaseAdapter, table Table, col string, splitSize int64, max Key, after *Key) (*Key, error) {
	end, err := adapter.NextChunkMax(ctx, table, col, int32(splitSize), after)
	if err != nil {
		return nil, driverErr("NextChunkMax", err)
	}
	if end == nil {
		return nil, nil
	}
	if after == nil {
		return end, nil
	}

	cmp, err := Compare(*end, *after)
	if err != nil {
		return nil, err
	}
	if cmp != 0 {
		return end, nil
	}

	// No progress: the server-computed boundary landed back on the
	// previous one, likely a long run of duplicate values. Step past
	// them explicitly.
	next, err := adapter.QueryMin(ctx, table, col, *after)
	if err != nil {
		return nil, driverErr("QueryMin", err)
	}
	if next == nil {
		return nil, nil
	}
	cmpMax, err := Compare(*next, max)
	if err != nil {
		return nil, err
	}
	if cmpMax >= 0 {
		return nil, nil
	}
	return next, nil
}
