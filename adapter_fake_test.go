package tablesplit

import "context"

// fakeAdapter is a minimal in-memory DatabaseAdapter for exercising the
// strategy selector and the three chunking algorithms without a real
// database connection. Mirrors the shape of the mysql adapter's
// interface but with deterministic, caller-supplied responses.
type fakeAdapter struct {
	min, max    *Key
	rowCount    int64
	rowCountErr error

	nextChunkMax func(after *Key) (*Key, error)
	queryMin     func(after Key) (*Key, error)
	sample       []Key
	sampleErr    error
	sampleColumn func(inverseRate int32) ([]Key, error)
}

func (f *fakeAdapter) MinMax(ctx context.Context, table Table, col string) (*Key, *Key, error) {
	return f.min, f.max, nil
}

func (f *fakeAdapter) ApproximateRowCount(ctx context.Context, table Table) (int64, error) {
	return f.rowCount, f.rowCountErr
}

func (f *fakeAdapter) NextChunkMax(ctx context.Context, table Table, col string, size int32, after *Key) (*Key, error) {
	return f.nextChunkMax(after)
}

func (f *fakeAdapter) QueryMin(ctx context.Context, table Table, col string, after Key) (*Key, error) {
	return f.queryMin(after)
}

func (f *fakeAdapter) SampleColumn(ctx context.Context, table Table, col string, inverseRate int32) ([]Key, error) {
	if f.sampleColumn != nil {
		return f.sampleColumn(inverseRate)
	}
	return f.sample, f.sampleErr
}

func (f *fakeAdapter) TableIdentifier(table Table) string {
	return "`" + table.Schema + "`.`" + table.Name + "`"
}

func intKey(v int64) Key { return NewIntKey(KindInt64, v) }
func strKey(v string) Key { return NewStringKey(v) }
