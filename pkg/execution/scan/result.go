package scan

import (
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"shardexec/pkg/iterator"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

// QueryResult is the raw result of one execution unit.
type QueryResult interface {
	// MetaData describes the rows of the result.
	MetaData() *tuple.MetaData

	// Next advances to the next row and reports whether one exists.
	Next() (bool, error)

	// Row returns the row Next advanced to.
	Row() tuple.Row

	// Close releases the cursor and connection behind the result. It is safe
	// to call more than once.
	Close() error
}

// MemoryQueryResult holds a fully materialized result. It owns no database
// resources.
type MemoryQueryResult struct {
	md     *tuple.MetaData
	cursor *iterator.SliceIterator[tuple.Row]
}

// NewMemoryQueryResult wraps rows already in memory.
func NewMemoryQueryResult(md *tuple.MetaData, rows []tuple.Row) *MemoryQueryResult {
	return &MemoryQueryResult{md: md, cursor: iterator.NewSliceIterator(rows)}
}

// materialize drains rows into a MemoryQueryResult and closes them.
func materialize(md *tuple.MetaData, rows *sql.Rows) (*MemoryQueryResult, error) {
	defer rows.Close()

	reader, err := newRowReader(md, rows)
	if err != nil {
		return nil, err
	}

	var buffered []tuple.Row
	for rows.Next() {
		row, err := reader.read()
		if err != nil {
			return nil, err
		}
		buffered = append(buffered, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read result")
	}
	return NewMemoryQueryResult(md, buffered), nil
}

func (m *MemoryQueryResult) MetaData() *tuple.MetaData { return m.md }
func (m *MemoryQueryResult) Next() (bool, error)       { return m.cursor.MoveNext(), nil }
func (m *MemoryQueryResult) Row() tuple.Row            { return m.cursor.Current() }
func (m *MemoryQueryResult) Close() error              { return nil }

// Rewind moves back before the first row.
func (m *MemoryQueryResult) Rewind() {
	m.cursor.Reset()
}

// Len returns the number of buffered rows.
func (m *MemoryQueryResult) Len() int {
	return m.cursor.Len()
}

// StreamQueryResult reads rows from an open cursor one at a time. The cursor
// and its connection stay held until Close.
type StreamQueryResult struct {
	md      *tuple.MetaData
	rows    *sql.Rows
	reader  *rowReader
	release func() error
	current tuple.Row
	closed  bool
}

// NewStreamQueryResult wraps an open cursor. release runs after the cursor is
// closed and returns its connection.
func NewStreamQueryResult(md *tuple.MetaData, rows *sql.Rows, release func() error) (*StreamQueryResult, error) {
	reader, err := newRowReader(md, rows)
	if err != nil {
		return nil, err
	}
	return &StreamQueryResult{md: md, rows: rows, reader: reader, release: release}, nil
}

func (s *StreamQueryResult) MetaData() *tuple.MetaData {
	return s.md
}

// Next reads the next row from the cursor and converts it eagerly so that
// driver errors surface here rather than being turned into an empty row.
func (s *StreamQueryResult) Next() (bool, error) {
	if s.closed {
		return false, fmt.Errorf("result is closed")
	}
	if !s.rows.Next() {
		s.current = nil
		if err := s.rows.Err(); err != nil {
			return false, errors.Wrap(err, "read result")
		}
		return false, nil
	}

	row, err := s.reader.read()
	if err != nil {
		return false, err
	}
	s.current = row
	return true, nil
}

func (s *StreamQueryResult) Row() tuple.Row {
	return s.current
}

func (s *StreamQueryResult) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.rows.Close()
	if s.release != nil {
		err = errors.CombineErrors(err, s.release())
	}
	return err
}

// rowReader converts driver values into fields of the declared column types.
type rowReader struct {
	md     *tuple.MetaData
	rows   *sql.Rows
	values []any
	dest   []any
}

func newRowReader(md *tuple.MetaData, rows *sql.Rows) (*rowReader, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read result columns")
	}
	if len(cols) != md.ColumnCount() {
		return nil, fmt.Errorf("result has %d columns, expected %d", len(cols), md.ColumnCount())
	}

	r := &rowReader{
		md:     md,
		rows:   rows,
		values: make([]any, len(cols)),
		dest:   make([]any, len(cols)),
	}
	for i := range r.values {
		r.dest[i] = &r.values[i]
	}
	return r, nil
}

func (r *rowReader) read() (tuple.Row, error) {
	if err := r.rows.Scan(r.dest...); err != nil {
		return nil, errors.Wrap(err, "scan row")
	}

	fields := make([]types.Field, len(r.values))
	for i, v := range r.values {
		f, err := types.FromDriverValue(v, r.md.Columns[i].Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", r.md.Columns[i].Name, err)
		}
		fields[i] = f
	}
	return tuple.NewTuple(fields...), nil
}
