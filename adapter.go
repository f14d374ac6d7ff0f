package tablesplit

import "context"

// Table identifies a table the splitter reads chunk boundaries for. It's
// opaque to the splitter beyond being handed back to the DatabaseAdapter
// and used to build Split.TablePath.
type Table struct {
	Schema string
	Name   string
}

// DatabaseAdapter is the external collaborator the splitter depends on
// for everything that requires a round-trip to the source database. The
// splitter only consumes this interface; a concrete implementation (see
// adapter/mysql) is out of the splitter's own scope.
type DatabaseAdapter interface {
	// MinMax returns the minimum and maximum values of col in table. Both
	// are nil if the table is empty.
	MinMax(ctx context.Context, table Table, col string) (min, max *Key, err error)

	// ApproximateRowCount returns a fast, possibly stale row count
	// (e.g. from table statistics), not an exact COUNT(*).
	ApproximateRowCount(ctx context.Context, table Table) (int64, error)

	// NextChunkMax returns the value of col at ordinal position size
	// strictly greater than after, i.e. the maximum of the size smallest
	// values of col that are > after. If fewer than size rows satisfy
	// col > after, returns the largest of them; returns nil if none do.
	NextChunkMax(ctx context.Context, table Table, col string, size int32, after *Key) (*Key, error)

	// QueryMin returns the minimum value of col strictly greater than
	// after. Used to step past a run of duplicate values when
	// NextChunkMax makes no progress.
	QueryMin(ctx context.Context, table Table, col string, after Key) (*Key, error)

	// SampleColumn returns a sorted sample of col's values, picking
	// roughly 1 of every inverseRate rows.
	SampleColumn(ctx context.Context, table Table, col string, inverseRate int32) ([]Key, error)

	// TableIdentifier returns table quoted/escaped as appropriate for
	// use directly in a SQL statement.
	TableIdentifier(table Table) string
}
