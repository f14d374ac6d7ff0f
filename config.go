package tablesplit

// Config holds the splitter's tunable options. A Config is validated once,
// at Splitter construction, and is immutable for the lifetime of a
// splitter run.
type Config struct {
	// SplitSize is the target number of rows per chunk.
	SplitSize int64 `json:"split-size"`

	// DistributionFactorUpper and DistributionFactorLower delimit what
	// counts as "evenly distributed".
	DistributionFactorUpper float64 `json:"even-distribution-factor-upper-bound"`
	DistributionFactorLower float64 `json:"even-distribution-factor-lower-bound"`

	// SampleShardingThreshold: above this shard count, sampling replaces
	// arithmetic chunking.
	SampleShardingThreshold int64 `json:"sample-sharding-threshold"`

	// InverseSamplingRate: the sample picks 1 of every N rows. Clamped to
	// SplitSize on use.
	InverseSamplingRate int32 `json:"inverse-sampling-rate"`
}

// DefaultConfig returns conservative defaults suitable for most tables.
func DefaultConfig() Config {
	return Config{
		SplitSize:               8192,
		DistributionFactorUpper: 1000.0,
		DistributionFactorLower: 0.05,
		SampleShardingThreshold: 1000,
		InverseSamplingRate:     1000,
	}
}

// Validate checks the invariants the splitter relies on at construction
// time, surfacing ConfigInvalid rather than failing deep inside a
// strategy: reject nonsensical combinations before doing any work.
func (c Config) Validate() error {
	if c.SplitSize <= 0 {
		return ConfigInvalid{Reason: "split-size must be positive"}
	}
	if c.SampleShardingThreshold <= 0 {
		return ConfigInvalid{Reason: "sample-sharding-threshold must be positive"}
	}
	if c.InverseSamplingRate <= 0 {
		return ConfigInvalid{Reason: "inverse-sampling-rate must be positive"}
	}
	if c.DistributionFactorLower > c.DistributionFactorUpper {
		return ConfigInvalid{Reason: "even-distribution-factor-lower-bound must not exceed the upper bound"}
	}
	return nil
}

// clampedSamplingRate ensures the sample rate never exceeds SplitSize: a
// rate coarser than the chunk size would yield fewer sample points than
// shards.
func (c Config) clampedSamplingRate() int32 {
	rate := c.InverseSamplingRate
	if int64(rate) > c.SplitSize {
		Log.WithFields(map[string]interface{}{
			"configured-rate": rate,
			"split-size":      c.SplitSize,
		}).Warn("inverse-sampling-rate clamped to split-size")
		// rate is an int32 and SplitSize < rate on this branch, so the
		// conversion can't truncate.
		return int32(c.SplitSize)
	}
	return rate
}
