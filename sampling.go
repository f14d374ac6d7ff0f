package tablesplit

// chunkSampling shards via a sampled quantile estimate, for keys judged
// too sparse for arithmetic striding. sample must already be sorted
// ascending (the DatabaseAdapter contract).
func chunkSampling(sample []Key, shardCount int64) []ChunkRange {
	if shardCount == 0 {
		return []ChunkRange{FullScan()}
	}
	if len(sample) == 0 {
		return []ChunkRange{FullScan()}
	}

	s := int64(len(sample)) / shardCount
	if s <= 1 {
		// Degenerate case: the sample has fewer than two points per
		// shard. Emit one chunk per sample point - this over-shards
		// relative to shardCount when the sample is small, preserved
		// here rather than silently capping at shardCount.
		return chunkPerSamplePoint(sample)
	}

	chunks := make([]ChunkRange, 0, shardCount)
	for i := int64(0); i < shardCount; i++ {
		var start, end *Key
		if i != 0 {
			k := sample[i*s]
			start = &k
		}
		if i != shardCount-1 {
			k := sample[(i+1)*s]
			end = &k
		}
		chunks = append(chunks, ChunkRange{Start: start, End: end})
	}
	return chunks
}

func chunkPerSamplePoint(sample []Key) []ChunkRange {
	chunks := make([]ChunkRange, 0, len(sample)+1)
	chunks = append(chunks, OpenStart(sample[0]))
	for i := 1; i < len(sample); i++ {
		chunks = append(chunks, NewChunkRange(sample[i-1], sample[i]))
	}
	chunks = append(chunks, OpenEnd(sample[len(sample)-1]))
	return chunks
}
