// Package mysql implements tablesplit.DatabaseAdapter over database/sql and
// the go-sql-driver/mysql driver.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/folbricht/tablesplit"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05.999999"
)

// Adapter is a tablesplit.DatabaseAdapter backed by a MySQL (or
// MySQL-compatible) server. It holds no per-table state beyond a small
// column-kind cache: one Adapter can be shared across concurrent splitter
// runs against different tables.
type Adapter struct {
	db *sql.DB

	mu    sync.RWMutex
	kinds map[string]tablesplit.Kind
}

// Open is a convenience constructor that opens a connection pool for dsn
// and wraps it. Callers that already manage a *sql.DB should use New
// instead and keep owning the pool's lifetime.
func Open(dsn string) (*Adapter, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening mysql connection")
	}
	return New(db), nil
}

// New wraps an existing *sql.DB. The Adapter does not close db; that
// remains the caller's responsibility. The adapter borrows the
// connection, it doesn't own it.
func New(db *sql.DB) *Adapter {
	return &Adapter{db: db, kinds: make(map[string]tablesplit.Kind)}
}

// TableIdentifier renders table as a backtick-quoted identifier suitable
// for interpolation into a query. Table names and column names are never
// taken from user bind parameters in MySQL, so this quoting - not a bind
// placeholder - is the correct defense against a name containing a
// backtick.
func (a *Adapter) TableIdentifier(table tablesplit.Table) string {
	if table.Schema == "" {
		return quoteIdent(table.Name)
	}
	return quoteIdent(table.Schema) + "." + quoteIdent(table.Name)
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// MinMax returns the column's minimum and maximum values, or (nil, nil,
// nil) if the table is empty.
func (a *Adapter) MinMax(ctx context.Context, table tablesplit.Table, col string) (*tablesplit.Key, *tablesplit.Key, error) {
	kind, err := a.columnKind(ctx, table, col)
	if err != nil {
		return nil, nil, err
	}

	query := fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", quoteIdent(col), quoteIdent(col), a.TableIdentifier(table))
	var minRaw, maxRaw interface{}
	row := a.db.QueryRowContext(ctx, query)
	if err := row.Scan(&minRaw, &maxRaw); err != nil {
		return nil, nil, errors.Wrap(err, "scanning min/max")
	}
	if minRaw == nil || maxRaw == nil {
		return nil, nil, nil
	}

	min, err := keyFromRaw(kind, minRaw)
	if err != nil {
		return nil, nil, err
	}
	max, err := keyFromRaw(kind, maxRaw)
	if err != nil {
		return nil, nil, err
	}
	return &min, &max, nil
}

// ApproximateRowCount reads InnoDB's cached row-count estimate from
// information_schema rather than running COUNT(*): an estimate is all
// the distribution-factor calculation needs, and COUNT(*) is a full
// table scan on InnoDB.
func (a *Adapter) ApproximateRowCount(ctx context.Context, table tablesplit.Table) (int64, error) {
	const query = `SELECT TABLE_ROWS FROM information_schema.TABLES WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ?`
	var schemaArg interface{}
	if table.Schema != "" {
		schemaArg = table.Schema
	}
	var n sql.NullInt64
	row := a.db.QueryRowContext(ctx, query, schemaArg, table.Name)
	if err := row.Scan(&n); err != nil {
		return 0, errors.Wrap(err, "reading approximate row count")
	}
	return n.Int64, nil
}

// NextChunkMax asks the server for the key value size rows past after.
// If fewer than size rows remain it returns the largest remaining value,
// and nil if no row is past after. The inner/outer LIMIT-1 query
// shape is the same one a server-driven chunker uses to find a chunk
// boundary without materializing the rows between after and it.
func (a *Adapter) NextChunkMax(ctx context.Context, table tablesplit.Table, col string, size int32, after *tablesplit.Key) (*tablesplit.Key, error) {
	kind, err := a.columnKind(ctx, table, col)
	if err != nil {
		return nil, err
	}

	ident := quoteIdent(col)
	where := ""
	var args []interface{}
	if after != nil {
		v, err := rawFromKey(*after)
		if err != nil {
			return nil, err
		}
		where = fmt.Sprintf("WHERE %s > ?", ident)
		args = append(args, v)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM (SELECT %s FROM %s %s ORDER BY %s LIMIT %d) t ORDER BY %s DESC LIMIT 1",
		ident, ident, a.TableIdentifier(table), where, ident, size, ident,
	)
	var raw interface{}
	row := a.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding next chunk boundary")
	}
	key, err := keyFromRaw(kind, raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// QueryMin returns the smallest key value strictly greater than after, or
// nil if none exists. Used to recover from a run of duplicate keys that
// NextChunkMax can't step past on its own.
func (a *Adapter) QueryMin(ctx context.Context, table tablesplit.Table, col string, after tablesplit.Key) (*tablesplit.Key, error) {
	kind, err := a.columnKind(ctx, table, col)
	if err != nil {
		return nil, err
	}
	v, err := rawFromKey(after)
	if err != nil {
		return nil, err
	}

	ident := quoteIdent(col)
	query := fmt.Sprintf("SELECT MIN(%s) FROM %s WHERE %s > ?", ident, a.TableIdentifier(table), ident)
	var raw interface{}
	row := a.db.QueryRowContext(ctx, query, v)
	if err := row.Scan(&raw); err != nil {
		return nil, errors.Wrap(err, "querying recovery minimum")
	}
	if raw == nil {
		return nil, nil
	}
	key, err := keyFromRaw(kind, raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// SampleColumn returns an ascending sample of the column, picking
// approximately one row in every inverseRate. MySQL has no TABLESAMPLE;
// RAND() <= 1/rate is the standard substitute, acceptable here since the
// sampling strategy only needs representative quantiles, not an exact
// fraction.
func (a *Adapter) SampleColumn(ctx context.Context, table tablesplit.Table, col string, inverseRate int32) ([]tablesplit.Key, error) {
	kind, err := a.columnKind(ctx, table, col)
	if err != nil {
		return nil, err
	}
	if inverseRate < 1 {
		inverseRate = 1
	}

	ident := quoteIdent(col)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE RAND() <= ? ORDER BY %s",
		ident, a.TableIdentifier(table), ident,
	)
	rows, err := a.db.QueryContext(ctx, query, 1.0/float64(inverseRate))
	if err != nil {
		return nil, errors.Wrap(err, "sampling column")
	}
	defer rows.Close()

	var sample []tablesplit.Key
	for rows.Next() {
		var raw interface{}
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, "scanning sample row")
		}
		key, err := keyFromRaw(kind, raw)
		if err != nil {
			return nil, err
		}
		sample = append(sample, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating sample rows")
	}
	return sample, nil
}

// columnKind resolves and caches the tablesplit.Kind for table.col,
// looking it up from information_schema on first use per (table,
// column) pair.
func (a *Adapter) columnKind(ctx context.Context, table tablesplit.Table, col string) (tablesplit.Kind, error) {
	cacheKey := a.TableIdentifier(table) + "." + col

	a.mu.RLock()
	kind, ok := a.kinds[cacheKey]
	a.mu.RUnlock()
	if ok {
		return kind, nil
	}

	const query = `
		SELECT DATA_TYPE, COLUMN_TYPE
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ? AND COLUMN_NAME = ?
	`
	var dataType, columnType string
	schema := table.Schema
	var schemaArg interface{}
	if schema != "" {
		schemaArg = schema
	}
	row := a.db.QueryRowContext(ctx, query, schemaArg, table.Name, col)
	if err := row.Scan(&dataType, &columnType); err != nil {
		return 0, errors.Wrapf(err, "resolving column type for %s.%s", table.Name, col)
	}

	kind = mapColumnType(dataType, columnType)

	a.mu.Lock()
	a.kinds[cacheKey] = kind
	a.mu.Unlock()
	return kind, nil
}

// mapColumnType translates a MySQL DATA_TYPE/COLUMN_TYPE pair into the
// Kind the splitter's arithmetic dispatches on.
func mapColumnType(dataType, columnType string) tablesplit.Kind {
	dataType = strings.ToLower(dataType)
	unsigned := strings.Contains(strings.ToLower(columnType), "unsigned")

	switch dataType {
	case "tinyint":
		if unsigned {
			return tablesplit.KindUint8
		}
		return tablesplit.KindInt8
	case "smallint":
		if unsigned {
			return tablesplit.KindUint16
		}
		return tablesplit.KindInt16
	case "mediumint", "int":
		if unsigned {
			return tablesplit.KindUint32
		}
		return tablesplit.KindInt32
	case "bigint":
		if unsigned {
			return tablesplit.KindUint64
		}
		return tablesplit.KindInt64
	case "decimal", "numeric":
		return tablesplit.KindDecimal
	case "float":
		return tablesplit.KindFloat32
	case "double":
		return tablesplit.KindFloat64
	case "date":
		return tablesplit.KindDate
	case "datetime", "timestamp":
		return tablesplit.KindTimestamp
	default:
		return tablesplit.KindString
	}
}

// keyFromRaw converts a value produced by database/sql scanning (already
// normalized to one of int64, uint64, float64, []byte/string, or
// time.Time by the driver) into a Key of the given Kind.
func keyFromRaw(kind tablesplit.Kind, raw interface{}) (tablesplit.Key, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}

	switch kind {
	case tablesplit.KindInt8, tablesplit.KindInt16, tablesplit.KindInt32, tablesplit.KindInt64:
		v, err := toInt64(raw)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewIntKey(kind, v), nil
	case tablesplit.KindUint8, tablesplit.KindUint16, tablesplit.KindUint32, tablesplit.KindUint64:
		v, err := toUint64(raw)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewUintKey(kind, v), nil
	case tablesplit.KindFloat32, tablesplit.KindFloat64:
		v, err := toFloat64(raw)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewFloatKey(kind, v), nil
	case tablesplit.KindDecimal:
		v, err := toDecimal(raw)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewDecimalKey(v), nil
	case tablesplit.KindString:
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprintf("%v", raw)
		}
		return tablesplit.NewStringKey(s), nil
	case tablesplit.KindDate:
		t, err := toTime(raw, dateLayout)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewDateKey(t), nil
	case tablesplit.KindTimestamp:
		t, err := toTime(raw, timestampLayout)
		if err != nil {
			return tablesplit.Key{}, err
		}
		return tablesplit.NewTimestampKey(t), nil
	default:
		return tablesplit.Key{}, errors.Errorf("unsupported column kind %s", kind)
	}
}

// rawFromKey is keyFromRaw's inverse: the driver-ready bind value for a
// boundary Key used in an adapter-built query (NextChunkMax, QueryMin).
// database/sql accepts int64/uint64/float64/string/time.Time natively,
// and decimal.Decimal implements driver.Valuer, so this is just Key's
// own Value().
func rawFromKey(k tablesplit.Key) (interface{}, error) {
	return k.Value(), nil
}

func toInt64(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, errors.Wrap(err, "parsing integer key")
	default:
		return 0, errors.Errorf("cannot convert %T to int64", raw)
	}
}

func toUint64(raw interface{}) (uint64, error) {
	switch v := raw.(type) {
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return n, errors.Wrap(err, "parsing unsigned integer key")
	default:
		return 0, errors.Errorf("cannot convert %T to uint64", raw)
	}
}

func toFloat64(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, errors.Wrap(err, "parsing float key")
	default:
		return 0, errors.Errorf("cannot convert %T to float64", raw)
	}
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		return d, errors.Wrap(err, "parsing decimal key")
	default:
		return decimal.Decimal{}, errors.Errorf("cannot convert %T to decimal", raw)
	}
}

func toTime(raw interface{}, layout string) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02 15:04:05", v)
		return t, errors.Wrap(err, "parsing temporal key")
	default:
		return time.Time{}, errors.Errorf("cannot convert %T to time.Time", raw)
	}
}
