package tablesplit

// chunkEvenly implements arithmetic-stride chunking over a dense key
// range. Preconditions: key type is evenly-splittable, min/max/n/stride
// are already known.
//
// If n <= splitSize the whole table fits in one chunk. Otherwise the
// stride is walked from min to max; the first chunk is open-below so that
// rows equal to min are captured by its "<= end AND != end" predicate
// (see predicate.go), and every chunk after the loop terminates -
// whether by reaching max or by stride overflow - is closed by a final
// open-above chunk that absorbs the remainder.
func chunkEvenly(min, max Key, n, splitSize, stride int64) ([]ChunkRange, error) {
	if n <= splitSize {
		return []ChunkRange{FullScan()}, nil
	}

	var chunks []ChunkRange
	cur := min
	emittedAny := false

	for {
		end, ok := Plus(cur, stride)
		if !ok {
			// Stop advancing, the closing chunk below absorbs
			// everything from cur onward.
			Log.WithFields(map[string]interface{}{
				"error": ArithmeticOverflow{Kind: cur.Kind}.Error(),
			}).Debug("stride advance stopped early")
			break
		}
		cmp, err := Compare(end, max)
		if err != nil {
			return nil, err
		}
		if cmp > 0 {
			break
		}
		if !emittedAny {
			chunks = append(chunks, OpenStart(end))
			emittedAny = true
		} else {
			chunks = append(chunks, NewChunkRange(cur, end))
		}
		cur = end
	}

	if !emittedAny {
		// The very first stride already overflowed or exceeded max: no
		// split boundary could be produced at all. Fall back to a full
		// scan rather than emit a single chunk with a non-null start,
		// which would violate the null-bracketing invariant.
		return []ChunkRange{FullScan()}, nil
	}

	chunks = append(chunks, OpenEnd(cur))
	return chunks, nil
}
