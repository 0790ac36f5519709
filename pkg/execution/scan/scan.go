// Package scan implements the leaf of every operator tree: it runs the routed
// physical SQL on each data source and exposes all results as one stream.
package scan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	dberror "shardexec/pkg/error"
	"shardexec/pkg/execution"
	"shardexec/pkg/execution/setops"
	"shardexec/pkg/iterator"
	"shardexec/pkg/metrics"
	"shardexec/pkg/plan"
	"shardexec/pkg/tuple"
)

// ScanOperator executes one logical scan against every routed data source.
//
// Construction is cheap: it only rewrites the SQL per route unit. Init
// acquires connections, runs every execution unit on the executor engine and
// blocks until all of them finish or one fails. Each data source streams its
// results when its units fit within max-connections-size-per-query and
// materializes them in memory otherwise, unless the plan forces a mode.
//
// Zero units produce an empty stream that still carries the scan's metadata;
// several units are concatenated in route order.
type ScanOperator struct {
	*iterator.BaseOperator
	ctx      *execution.Context
	md       *tuple.MetaData
	units    []ExecutionUnit
	hint     plan.ConnectionMode
	delegate iterator.Operator
}

// NewScanOperator creates the scan for node under ctx.
func NewScanOperator(ctx *execution.Context, node *plan.ScanNode) (*ScanOperator, error) {
	if ctx == nil || node == nil {
		return nil, dberror.InvalidArgument("ScanOperator", "context and scan node are required")
	}
	if len(node.Columns) == 0 {
		return nil, dberror.InvalidArgument("ScanOperator", "scan node declares no columns")
	}

	s := &ScanOperator{
		ctx:   ctx,
		md:    tuple.NewMetaData(node.Columns...),
		units: BuildUnits(node.SQL, ctx.Parameters(), ctx.Route()),
		hint:  node.Mode,
	}
	s.BaseOperator = iterator.NewBaseOperator("ScanOperator", s.initialize, s.closeDelegate)
	return s, nil
}

// Units returns the execution units this scan runs.
func (s *ScanOperator) Units() []ExecutionUnit {
	return s.units
}

func (s *ScanOperator) MetaData() *tuple.MetaData {
	return s.md
}

func (s *ScanOperator) initialize() error {
	if len(s.units) == 0 {
		s.delegate = iterator.NewEmptyOperator(s.md)
		return s.delegate.Init()
	}

	results, err := s.execute()
	if err != nil {
		return err
	}

	operators := make([]iterator.Operator, len(results))
	for i, r := range results {
		operators[i] = NewResultOperator(r)
	}

	if len(operators) == 1 {
		s.delegate = operators[0]
	} else {
		union, err := setops.NewMultiOperator(operators)
		if err != nil {
			closeResults(results)
			return err
		}
		s.delegate = union
	}
	return s.delegate.Init()
}

// execute acquires every connection up front, then runs the units. On failure
// every acquired resource is released before returning.
func (s *ScanOperator) execute() ([]QueryResult, error) {
	provider := s.ctx.Connections()
	if provider == nil {
		return nil, errors.New("no connection provider in execution context")
	}

	props := s.ctx.Props()
	goctx := s.ctx.Context()
	log := s.ctx.Logger()
	groups := groupUnits(s.units, s.hint, props.MaxConnectionsSizePerQuery)

	var executors []*statementExecutor
	releaseAll := func() {
		for _, e := range executors {
			_ = e.close()
		}
	}

	results := make([]QueryResult, len(s.units))
	var tasks []execution.Task
	for _, g := range groups {
		conns, err := provider.Connections(goctx, g.dataSource, g.connections)
		if err != nil {
			releaseAll()
			return nil, err
		}

		for c, conn := range conns {
			exec, err := newStatementExecutor(conn, g.dataSource, props.PreparedStatementCacheSize)
			if err != nil {
				_ = conn.Close()
				for _, rest := range conns[c+1:] {
					_ = rest.Close()
				}
				releaseAll()
				return nil, err
			}
			executors = append(executors, exec)
			tasks = append(tasks, s.task(g.mode, exec, g.assign(c), results))
		}

		log.Debug("scan units grouped",
			zap.String("data_source", g.dataSource),
			zap.Stringer("mode", g.mode),
			zap.Int("units", len(g.units)),
			zap.Int("connections", g.connections))
	}

	err := s.ctx.ExecutorEngine().Execute(goctx, tasks, s.ctx.HoldTransaction())
	if err != nil {
		closeResults(results)
		releaseAll()
		return nil, err
	}
	return results, nil
}

// task runs the units assigned to one connection. In memory mode every result
// is drained and the connection released when the task ends; in stream mode
// the single result keeps the connection until it is closed.
func (s *ScanOperator) task(mode plan.ConnectionMode, exec *statementExecutor, assigned []int, results []QueryResult) execution.Task {
	return func(ctx context.Context) error {
		if mode == plan.ModeMemory {
			defer exec.close()
		}

		for _, i := range assigned {
			unit := s.units[i]
			rows, err := s.run(ctx, exec, unit, mode)
			if err != nil {
				return err
			}

			if mode == plan.ModeMemory {
				res, err := materialize(s.md, rows)
				if err != nil {
					return errors.Wrapf(err, "materialize %s", unit.DataSource)
				}
				results[i] = res
				continue
			}

			res, err := NewStreamQueryResult(s.md, rows, exec.close)
			if err != nil {
				_ = rows.Close()
				return err
			}
			results[i] = res
		}
		return nil
	}
}

func (s *ScanOperator) run(ctx context.Context, exec *statementExecutor, unit ExecutionUnit, mode plan.ConnectionMode) (*sql.Rows, error) {
	if s.ctx.Props().SQLShow {
		s.ctx.Logger().Info("actual SQL",
			zap.String("data_source", unit.DataSource),
			zap.String("sql", unit.SQL),
			zap.Any("parameters", unit.Parameters))
	}

	start := time.Now()
	rows, err := exec.query(ctx, unit)
	metrics.ScanDurationHistogram.WithLabelValues(unit.DataSource).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ScanUnitCounter.WithLabelValues(unit.DataSource, mode.String(), status).Inc()
	if err != nil {
		return nil, errors.Wrapf(err, "sql %q", unit.SQL)
	}
	return rows, nil
}

func closeResults(results []QueryResult) {
	for _, r := range results {
		if r != nil {
			_ = r.Close()
		}
	}
}

func (s *ScanOperator) closeDelegate() error {
	if s.delegate == nil {
		return nil
	}
	return s.delegate.Close()
}

func (s *ScanOperator) MoveNext() (bool, error) {
	if err := s.Init(); err != nil {
		return false, err
	}
	return s.delegate.MoveNext()
}

func (s *ScanOperator) Current() (tuple.Row, error) {
	if s.delegate == nil {
		return nil, fmt.Errorf("%s has no current row", s.Name())
	}
	return s.delegate.Current()
}
