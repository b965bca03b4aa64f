package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/questbot/internal/db"
)

// FailingWriteUoW fails the FailOn-th write to Table inside a transaction and
// rolls everything back. An empty Table counts every write. Use it to break a
// checkpoint between the focus_sessions inserts and the kv_store snapshot.
type FailingWriteUoW struct {
	DB     *sql.DB
	Table  string
	FailOn int32
	Err    error
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, table: u.Table, failOn: u.FailOn, err: u.Err})
	})
}

type failingWrites struct {
	db.DBTX
	table  string
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.table == "" || strings.Contains(query, f.table) {
		if f.count.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
