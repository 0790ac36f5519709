package scan

import (
	"context"
	"database/sql"
	"sync"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"shardexec/pkg/metrics"
)

// statementExecutor runs units on one dedicated connection. Statements with
// parameters are prepared once per distinct SQL text and kept in an LRU; an
// evicted statement is closed.
type statementExecutor struct {
	conn       *sql.Conn
	dataSource string
	cache      *lru.Cache[string, *sql.Stmt]
	closeOnce  sync.Once
	closeErr   error
}

func newStatementExecutor(conn *sql.Conn, dataSource string, cacheSize int) (*statementExecutor, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.NewWithEvict[string, *sql.Stmt](cacheSize, func(_ string, stmt *sql.Stmt) {
		_ = stmt.Close()
	})
	if err != nil {
		return nil, errors.Wrap(err, "create statement cache")
	}
	return &statementExecutor{conn: conn, dataSource: dataSource, cache: cache}, nil
}

// query runs unit as a plain statement when it has no parameters and as a
// prepared statement otherwise.
func (e *statementExecutor) query(ctx context.Context, unit ExecutionUnit) (*sql.Rows, error) {
	if len(unit.Parameters) == 0 {
		rows, err := e.conn.QueryContext(ctx, unit.SQL)
		if err != nil {
			return nil, errors.Wrapf(err, "execute on %s", e.dataSource)
		}
		return rows, nil
	}

	stmt, err := e.prepare(ctx, unit.SQL)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, unit.Parameters...)
	if err != nil {
		return nil, errors.Wrapf(err, "execute prepared statement on %s", e.dataSource)
	}
	return rows, nil
}

func (e *statementExecutor) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if stmt, ok := e.cache.Get(query); ok {
		metrics.StatementCacheCounter.WithLabelValues("hit").Inc()
		return stmt, nil
	}
	metrics.StatementCacheCounter.WithLabelValues("miss").Inc()

	stmt, err := e.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "prepare on %s", e.dataSource)
	}
	e.cache.Add(query, stmt)
	return stmt, nil
}

// close closes every cached statement and returns the connection to its pool.
// It is safe to call more than once.
func (e *statementExecutor) close() error {
	e.closeOnce.Do(func() {
		e.cache.Purge()
		e.closeErr = e.conn.Close()
	})
	return e.closeErr
}
