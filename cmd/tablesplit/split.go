package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/folbricht/tablesplit"
	mysqladapter "github.com/folbricht/tablesplit/adapter/mysql"
)

const splitLong = `Computes the row-range chunks needed to scan a table in parallel.

By default each chunk's SQL is printed to stdout, one per line, with its
bind parameters. With --execute, every chunk is instead run against the
database and the matched row count is reported; this is mainly useful
for sanity-checking a chunking plan against a real table.`

func newSplitCommand() *cobra.Command {
	var (
		dsn     string
		schema  string
		table   string
		key     string
		keyType string
		query   string
		workers int
		execute bool
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Compute parallel-scan row ranges for a table",
		Long:  splitLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(keyType)
			if err != nil {
				return err
			}
			if dsn == "" || table == "" || key == "" {
				return errors.New("--dsn, --table and --key are required")
			}

			db, err := sql.Open("mysql", dsn)
			if err != nil {
				return errors.Wrap(err, "opening database")
			}
			defer db.Close()

			adapter := mysqladapter.New(db)
			desc := tablesplit.TableDescriptor{
				Table:   tablesplit.Table{Schema: schema, Name: table},
				KeyName: key,
				KeyType: kind,
				Query:   query,
			}
			bar := newProgressBar(table)
			splitter, err := tablesplit.NewSplitter(cfg, adapter, desc, bar)
			if err != nil {
				return err
			}

			if !execute {
				splits, err := splitter.Split(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range splits {
					stmt, sqlArgs := s.ToSQL()
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%v\n", s.SplitID, stmt, sqlArgs)
				}
				return nil
			}

			return tablesplit.Enumerate(cmd.Context(), splitter, workers, func(ctx context.Context, split tablesplit.Split) error {
				stmt, sqlArgs := split.ToSQL()
				rows, err := db.QueryContext(ctx, stmt, sqlArgs...)
				if err != nil {
					return errors.Wrapf(err, "executing split %s", split.SplitID)
				}
				defer rows.Close()
				n := 0
				for rows.Next() {
					n++
				}
				tablesplit.Log.WithFields(map[string]interface{}{
					"split": split.SplitID,
					"rows":  n,
				}).Info("split executed")
				return rows.Err()
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&dsn, "dsn", "", "go-sql-driver/mysql data source name")
	flags.StringVar(&schema, "schema", "", "table schema/database (defaults to the DSN's database)")
	flags.StringVar(&table, "table", "", "table name")
	flags.StringVar(&key, "key", "", "split column name")
	flags.StringVar(&keyType, "key-type", "int64", "split column type: "+strings.Join(kindNames(), ", "))
	flags.StringVar(&query, "query", "", "restrict to rows matched by this SELECT, instead of the whole table")
	flags.IntVar(&workers, "workers", 10, "number of concurrent workers when --execute is set")
	flags.BoolVar(&execute, "execute", false, "run each chunk's query instead of just printing it")
	return cmd
}

var kindsByName = map[string]tablesplit.Kind{
	"int8":      tablesplit.KindInt8,
	"int16":     tablesplit.KindInt16,
	"int32":     tablesplit.KindInt32,
	"int64":     tablesplit.KindInt64,
	"uint8":     tablesplit.KindUint8,
	"uint16":    tablesplit.KindUint16,
	"uint32":    tablesplit.KindUint32,
	"uint64":    tablesplit.KindUint64,
	"decimal":   tablesplit.KindDecimal,
	"float32":   tablesplit.KindFloat32,
	"float64":   tablesplit.KindFloat64,
	"string":    tablesplit.KindString,
	"date":      tablesplit.KindDate,
	"timestamp": tablesplit.KindTimestamp,
}

func parseKind(name string) (tablesplit.Kind, error) {
	kind, ok := kindsByName[strings.ToLower(name)]
	if !ok {
		return 0, errors.Errorf("unknown --key-type %q, want one of: %s", name, strings.Join(kindNames(), ", "))
	}
	return kind, nil
}

func kindNames() []string {
	names := make([]string, 0, len(kindsByName))
	for name := range kindsByName {
		names = append(names, name)
	}
	return names
}
