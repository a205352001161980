package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

// Select runs a text query and expects the rows "1", "2", "3".
func Select(ctx context.Context, conn *sqldb.Conn) error {
	store, err := queries(conn)
	if err != nil {
		return err
	}
	qSelect, err := query(store, conn, "select")
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if err := conn.RealQuery(ctx, qSelect); err != nil {
		return connFailure("select: query", conn, err)
	}
	res, err := conn.StoreResult()
	if err != nil {
		return connFailure("select: store result", conn, err)
	}
	defer res.Close()

	want := []string{"1", "2", "3"}
	i := 0
	for {
		row, err := res.FetchRow()
		if errors.Is(err, sqldb.ErrNoData) {
			break
		}
		if err != nil {
			return connFailure("select: fetch row", conn, err)
		}
		if i >= len(want) {
			return fmt.Errorf("select: unexpected row %d: %q", i+1, row.String(0))
		}
		if row.IsNull(0) || row.String(0) != want[i] {
			return fmt.Errorf("select: row %d: got %q, want %q", i+1, row.String(0), want[i])
		}
		i++
	}
	if i != len(want) {
		return fmt.Errorf("select: got %d rows, want %d", i, len(want))
	}
	return nil
}
