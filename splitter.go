package tablesplit

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// TableDescriptor names the table, split column and (optional) restricting
// query a Splitter chunks. Query, if set, is a user-supplied SELECT that
// gets wrapped as a subquery; if empty, the splitter reads the whole table
// via TableIdentifier.
type TableDescriptor struct {
	Table   Table
	KeyName string
	KeyType Kind
	Query   string
}

// Splitter produces a table's full chunk list synchronously, during one
// call to Split. It's created per (table, config) pair and discarded
// after use; it holds no state across calls to Split.
type Splitter struct {
	cfg     Config
	adapter DatabaseAdapter
	table   TableDescriptor
	bar     ProgressBar
}

// NewSplitter validates cfg and returns a Splitter bound to adapter and
// table. adapter is borrowed, not owned: its connection lifetime is the
// caller's responsibility.
func NewSplitter(cfg Config, adapter DatabaseAdapter, table TableDescriptor, bar ProgressBar) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{cfg: cfg, adapter: adapter, table: table, bar: bar}, nil
}

// Split runs the strategy selector and returns the full ordered chunk
// list for the configured table, each wrapped as a Split ready for
// predicate generation. It's the splitter's only public entrypoint: one
// shot, synchronous, no partial results on error.
func (s *Splitter) Split(ctx context.Context) ([]Split, error) {
	ranges, err := s.selectChunks(ctx)
	if err != nil {
		return nil, err
	}

	tablePath := s.tablePath()
	base := s.baseQuery()
	splits := make([]Split, len(ranges))
	for i, r := range ranges {
		splits[i] = newSplit(tablePath, base, s.table.KeyName, s.table.KeyType, i, r)
	}

	Log.WithFields(map[string]interface{}{
		"table":  tablePath,
		"chunks": len(splits),
	}).Info("chunked table")
	return splits, nil
}

// selectChunks implements the strategy selector: pick the chunking
// algorithm based on key type, distribution factor, and shard count.
func (s *Splitter) selectChunks(ctx context.Context) ([]ChunkRange, error) {
	min, max, err := s.adapter.MinMax(ctx, s.table.Table, s.table.KeyName)
	if err != nil {
		return nil, driverErr("MinMax", err)
	}
	if min == nil || max == nil {
		return []ChunkRange{FullScan()}, nil
	}
	cmp, err := Compare(*min, *max)
	if err != nil {
		return nil, err
	}
	if cmp == 0 {
		return []ChunkRange{FullScan()}, nil
	}

	throttle := NewThrottle(s.bar)

	if !s.table.KeyType.IsEvenlySplittable() {
		return chunkUnevenly(ctx, s.adapter, s.table.Table, s.table.KeyName, s.cfg.SplitSize, *min, *max, throttle)
	}

	n, err := s.adapter.ApproximateRowCount(ctx, s.table.Table)
	if err != nil {
		return nil, driverErr("ApproximateRowCount", err)
	}

	f, err := distributionFactor(*min, *max, n)
	if err != nil {
		return nil, err
	}

	if f >= s.cfg.DistributionFactorLower && f <= s.cfg.DistributionFactorUpper {
		stride := int64(math.Floor(f * float64(s.cfg.SplitSize)))
		if stride < 1 {
			stride = 1
		}
		Log.WithFields(map[string]interface{}{
			"table":  s.tablePath(),
			"factor": f,
			"stride": stride,
		}).Debug("evenly distributed key, using arithmetic stride")
		return chunkEvenly(*min, *max, n, s.cfg.SplitSize, stride)
	}

	shardCount := n / s.cfg.SplitSize
	if shardCount > s.cfg.SampleShardingThreshold {
		rate := s.cfg.clampedSamplingRate()
		sample, err := s.adapter.SampleColumn(ctx, s.table.Table, s.table.KeyName, rate)
		if err != nil {
			return nil, driverErr("SampleColumn", err)
		}
		Log.WithFields(map[string]interface{}{
			"table":       s.tablePath(),
			"factor":      f,
			"shard-count": shardCount,
			"sample-size": len(sample),
		}).Debug("sparse key above sample-sharding threshold, sampling")
		return chunkSampling(sample, shardCount), nil
	}

	Log.WithFields(map[string]interface{}{
		"table":  s.tablePath(),
		"factor": f,
	}).Debug("sparse key below sample-sharding threshold, using server-driven boundaries")
	return chunkUnevenly(ctx, s.adapter, s.table.Table, s.table.KeyName, s.cfg.SplitSize, *min, *max, throttle)
}

func (s *Splitter) tablePath() string {
	if s.table.Table.Schema != "" {
		return s.table.Table.Schema + "." + s.table.Table.Name
	}
	return s.table.Table.Name
}

func (s *Splitter) baseQuery() string {
	if q := strings.TrimSpace(s.table.Query); q != "" {
		return fmt.Sprintf("SELECT * FROM (%s) tmp", q)
	}
	return fmt.Sprintf("SELECT * FROM %s", s.adapter.TableIdentifier(s.table.Table))
}
