package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folbricht/tablesplit"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectColumnKind(mock sqlmock.Sqlmock, dataType, columnType string) {
	rows := sqlmock.NewRows([]string{"DATA_TYPE", "COLUMN_TYPE"}).AddRow(dataType, columnType)
	mock.ExpectQuery("SELECT DATA_TYPE, COLUMN_TYPE").WillReturnRows(rows)
}

func TestMinMaxInt(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("SELECT MIN").WillReturnRows(
		sqlmock.NewRows([]string{"min", "max"}).AddRow(int64(1), int64(1000)),
	)

	min, max, err := a.MinMax(context.Background(), table, "id")
	require.NoError(t, err)
	require.NotNil(t, min)
	require.NotNil(t, max)
	cmp, err := tablesplit.Compare(*min, tablesplit.NewIntKey(tablesplit.KindInt64, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
	cmp, err = tablesplit.Compare(*max, tablesplit.NewIntKey(tablesplit.KindInt64, 1000))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMinMaxEmptyTableReturnsNil(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("SELECT MIN").WillReturnRows(
		sqlmock.NewRows([]string{"min", "max"}).AddRow(nil, nil),
	)

	min, max, err := a.MinMax(context.Background(), table, "id")
	require.NoError(t, err)
	assert.Nil(t, min)
	assert.Nil(t, max)
}

func TestApproximateRowCount(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Schema: "shop", Name: "orders"}

	mock.ExpectQuery("SELECT TABLE_ROWS").
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_ROWS"}).AddRow(int64(42)))

	n, err := a.ApproximateRowCount(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextChunkMaxNoMoreRows(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("ORDER BY .* DESC LIMIT 1").WillReturnError(sql.ErrNoRows)

	after := tablesplit.NewIntKey(tablesplit.KindInt64, 990)
	next, err := a.NextChunkMax(context.Background(), table, "id", 10, &after)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextChunkMaxAdvances(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("ORDER BY .* DESC LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1000)))

	after := tablesplit.NewIntKey(tablesplit.KindInt64, 990)
	next, err := a.NextChunkMax(context.Background(), table, "id", 10, &after)
	require.NoError(t, err)
	require.NotNil(t, next)
	cmp, err := tablesplit.Compare(*next, tablesplit.NewIntKey(tablesplit.KindInt64, 1000))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestQueryMinRecovery(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("SELECT MIN").
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(int64(1500)))

	after := tablesplit.NewIntKey(tablesplit.KindInt64, 1000)
	min, err := a.QueryMin(context.Background(), table, "id", after)
	require.NoError(t, err)
	require.NotNil(t, min)
	cmp, err := tablesplit.Compare(*min, tablesplit.NewIntKey(tablesplit.KindInt64, 1500))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestSampleColumn(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("WHERE RAND").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(20)).AddRow(int64(30)))

	sample, err := a.SampleColumn(context.Background(), table, "id", 1000)
	require.NoError(t, err)
	require.Len(t, sample, 3)
}

func TestColumnKindIsCachedAfterFirstLookup(t *testing.T) {
	a, mock := newMockAdapter(t)
	table := tablesplit.Table{Name: "orders"}

	expectColumnKind(mock, "bigint", "bigint")
	mock.ExpectQuery("SELECT MIN").WillReturnRows(
		sqlmock.NewRows([]string{"min", "max"}).AddRow(int64(1), int64(2)),
	)
	mock.ExpectQuery("SELECT MIN").WillReturnRows(
		sqlmock.NewRows([]string{"min", "max"}).AddRow(int64(1), int64(3)),
	)

	_, _, err := a.MinMax(context.Background(), table, "id")
	require.NoError(t, err)
	// Second call must not re-issue the information_schema lookup.
	_, _, err = a.MinMax(context.Background(), table, "id")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableIdentifierQuotesSchemaAndName(t *testing.T) {
	a, _ := newMockAdapter(t)
	assert.Equal(t, "`orders`", a.TableIdentifier(tablesplit.Table{Name: "orders"}))
	assert.Equal(t, "`shop`.`orders`", a.TableIdentifier(tablesplit.Table{Schema: "shop", Name: "orders"}))
}

func TestMapColumnTypeUnsigned(t *testing.T) {
	assert.Equal(t, tablesplit.KindUint32, mapColumnType("int", "int(10) unsigned"))
	assert.Equal(t, tablesplit.KindInt32, mapColumnType("int", "int(10)"))
	assert.Equal(t, tablesplit.KindDecimal, mapColumnType("decimal", "decimal(10,2)"))
	assert.Equal(t, tablesplit.KindString, mapColumnType("varchar", "varchar(255)"))
	assert.Equal(t, tablesplit.KindTimestamp, mapColumnType("datetime", "datetime"))
	assert.Equal(t, tablesplit.KindDate, mapColumnType("date", "date"))
}
