package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

const bufSize = 256

type insertedRow struct {
	id             uint64
	name           string
	nullableString string // "" with nullable true means NULL
	nullable       bool
}

var wantRows = []insertedRow{
	{id: 1, name: "aaaaaaaaaaa", nullableString: "11111111111"},
	{id: 2, name: "bbbbbbbbbbb", nullableString: "22222222222"},
	{id: 3, name: "ccccccccccc", nullable: true},
}

// Insert recreates table `aaa`, inserts three rows through a 9-parameter
// prepared statement and reads them back through bound output buffers.
func Insert(ctx context.Context, conn *sqldb.Conn) error {
	store, err := queries(conn)
	if err != nil {
		return err
	}
	q := map[string]string{}
	for _, name := range []string{"drop_table", "create_table", "insert", "select_all"} {
		if q[name], err = query(store, conn, name); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	if err := createTable(ctx, conn, q["drop_table"], q["create_table"]); err != nil {
		return err
	}
	if err := insertData(ctx, conn, q["insert"]); err != nil {
		return err
	}
	return validateInsert(ctx, conn, q["select_all"])
}

func createTable(ctx context.Context, conn *sqldb.Conn, drop, ddl string) error {
	if err := conn.RealQuery(ctx, drop); err != nil {
		return connFailure("insert: drop table", conn, err)
	}
	if err := conn.RealQuery(ctx, ddl); err != nil {
		return connFailure("insert: create table", conn, err)
	}
	return nil
}

func insertData(ctx context.Context, conn *sqldb.Conn, qInsert string) error {
	stmt, err := conn.Prepare(ctx, 9, qInsert)
	if err != nil {
		return connFailure("insert: prepare", conn, err)
	}
	defer stmt.Close()

	stmt.BindStr(0, "1")
	stmt.BindStr(1, "aaaaaaaaaaa")
	stmt.BindStr(2, "11111111111")

	stmt.BindStr(3, "2")
	stmt.BindStr(4, "bbbbbbbbbbb")
	stmt.BindStr(5, "22222222222")

	var bufID uint32
	stmt.BindValue(6, sqldb.FieldTypeLongLong, &bufID)
	stmt.BindStr(7, "ccccccccccc")
	stmt.BindNull(8)

	if err := stmt.BindStmt(); err != nil {
		return stmtFailure("insert: bind", stmt, err)
	}
	// read at execution, like a native buffer
	bufID = 3
	if err := stmt.Execute(ctx); err != nil {
		return stmtFailure("insert: execute", stmt, err)
	}
	return nil
}

func validateInsert(ctx context.Context, conn *sqldb.Conn, qSelectAll string) error {
	stmt, err := conn.Prepare(ctx, 0, qSelectAll)
	if err != nil {
		return connFailure("validate: prepare", conn, err)
	}
	defer stmt.Close()

	if err := stmt.Execute(ctx); err != nil {
		return stmtFailure("validate: execute", stmt, err)
	}
	res, err := stmt.StoreResult()
	if err != nil {
		return stmtFailure("validate: result metadata", stmt, err)
	}
	defer res.Close()
	if err := res.StoreResult(); err != nil {
		return stmtFailure("validate: store result", stmt, err)
	}
	if err := validateFetch(res); err != nil {
		return stmtFailure("validate: fetch", stmt, err)
	}
	return nil
}

func validateFetch(res *sqldb.StmtResult) error {
	var (
		bID uint64

		bName     string
		bLenName  int
		bNullName bool

		bNullableString     string
		bLenNullableString  int
		bNullNullableString bool
	)
	res.BindOutput(0, sqldb.FieldTypeLongLong, &bID, 0, nil, nil)
	res.BindOutput(1, sqldb.FieldTypeString, &bName, bufSize, &bNullName, &bLenName)
	res.BindOutput(2, sqldb.FieldTypeString, &bNullableString, bufSize, &bNullNullableString, &bLenNullableString)
	if err := res.BindResult(); err != nil {
		return err
	}

	var i uint64
	for {
		err := res.Fetch()
		if errors.Is(err, sqldb.ErrNoData) {
			break
		}
		if err != nil {
			return err
		}
		i++
		if i != bID {
			return fmt.Errorf("row %d: id %d", i, bID)
		}
		if i > uint64(len(wantRows)) {
			return fmt.Errorf("unexpected row %d", i)
		}
		want := wantRows[i-1]
		if bNullName || bName != want.name {
			return fmt.Errorf("row %d: name %q, want %q", i, bName, want.name)
		}
		if bNullNullableString != want.nullable {
			return fmt.Errorf("row %d: nullable_string NULL=%t, want %t", i, bNullNullableString, want.nullable)
		}
		if !want.nullable && bNullableString != want.nullableString {
			return fmt.Errorf("row %d: nullable_string %q, want %q", i, bNullableString, want.nullableString)
		}
	}
	if i != uint64(len(wantRows)) {
		return fmt.Errorf("got %d rows, want %d", i, len(wantRows))
	}
	return nil
}
