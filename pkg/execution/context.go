package execution

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"shardexec/pkg/config"
	"shardexec/pkg/datasource"
	"shardexec/pkg/logging"
	"shardexec/pkg/route"
)

// ConnectionProvider hands out dedicated connections to a named data source.
type ConnectionProvider interface {
	Connections(ctx context.Context, dataSource string, n int) ([]*sql.Conn, error)
}

// Context holds everything one compiled operator tree shares: the statement,
// its bound parameters, the routing decision and the resource handles.
// It is built once per query and never mutated afterwards, so operators read
// it without locking.
type Context struct {
	ctx             context.Context
	queryID         string
	sql             string
	parameters      []any
	route           *route.Context
	databaseType    datasource.DatabaseType
	props           config.Props
	connections     ConnectionProvider
	engine          *ExecutorEngine
	holdTransaction bool
}

// Option configures a Context at construction.
type Option func(*Context)

// WithQueryID overrides the generated query id.
func WithQueryID(id string) Option {
	return func(c *Context) { c.queryID = id }
}

// WithRoute sets the routing decision.
func WithRoute(r *route.Context) Option {
	return func(c *Context) { c.route = r }
}

// WithDatabaseType sets the dialect of the routed data sources.
func WithDatabaseType(t datasource.DatabaseType) Option {
	return func(c *Context) { c.databaseType = t }
}

// WithProps sets the execution properties.
func WithProps(p config.Props) Option {
	return func(c *Context) { c.props = p }
}

// WithConnections sets the connection provider used by scans.
func WithConnections(p ConnectionProvider) Option {
	return func(c *Context) { c.connections = p }
}

// WithExecutorEngine sets the fan-out pool used by scans.
func WithExecutorEngine(e *ExecutorEngine) Option {
	return func(c *Context) { c.engine = e }
}

// WithHoldTransaction marks the query as running inside a held transaction.
// Scans then run their units serially.
func WithHoldTransaction(hold bool) Option {
	return func(c *Context) { c.holdTransaction = hold }
}

// WithGoContext sets the context.Context that bounds statement execution.
func WithGoContext(ctx context.Context) Option {
	return func(c *Context) { c.ctx = ctx }
}

// NewContext creates the execution context for one query. The parameter slice
// is copied.
func NewContext(sql string, parameters []any, opts ...Option) *Context {
	c := &Context{
		ctx:          context.Background(),
		queryID:      uuid.NewString(),
		sql:          sql,
		parameters:   append([]any(nil), parameters...),
		route:        route.NewContext(),
		databaseType: datasource.MySQL,
		props:        config.DefaultProps(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) QueryID() string {
	return c.queryID
}

func (c *Context) SQL() string {
	return c.sql
}

// Parameters returns the bound parameters. Callers must not modify the slice.
func (c *Context) Parameters() []any {
	return c.parameters
}

// Parameter returns the parameter at 0-based ordinal index.
func (c *Context) Parameter(index int) (any, error) {
	if index < 0 || index >= len(c.parameters) {
		return nil, fmt.Errorf("parameter ?%d out of range (%d parameters bound)", index, len(c.parameters))
	}
	return c.parameters[index], nil
}

func (c *Context) Route() *route.Context {
	return c.route
}

func (c *Context) DatabaseType() datasource.DatabaseType {
	return c.databaseType
}

func (c *Context) Props() config.Props {
	return c.props
}

func (c *Context) Connections() ConnectionProvider {
	return c.connections
}

func (c *Context) ExecutorEngine() *ExecutorEngine {
	return c.engine
}

func (c *Context) HoldTransaction() bool {
	return c.holdTransaction
}

// Logger returns a logger tagged with this query's id.
func (c *Context) Logger() *zap.Logger {
	return logging.WithQuery(c.queryID)
}
