// Package datasource owns the physical database pools the scan operators run
// against. Each configured data source is one *sql.DB opened with the driver
// for its dialect.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"shardexec/pkg/config"
	"shardexec/pkg/logging"
)

// DatabaseType names the SQL dialect of a data source.
type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgresql"
	SQLite     DatabaseType = "sqlite3"
)

// DriverName returns the database/sql driver registered for t.
func (t DatabaseType) DriverName() (string, error) {
	switch t {
	case MySQL:
		return "mysql", nil
	case PostgreSQL:
		return "postgres", nil
	case SQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", string(t))
	}
}

// Source is one named database pool.
type Source struct {
	Name string
	Type DatabaseType
	DB   *sql.DB
}

// Manager holds every data source of the process.
type Manager struct {
	mu      sync.RWMutex
	sources map[string]*Source
	order   []string
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{sources: make(map[string]*Source)}
}

// Open opens a pool for every configured data source. No connection is made
// until the pool is used; call PingAll to verify reachability.
func Open(cfgs []config.DataSource) (*Manager, error) {
	m := NewManager()
	for _, c := range cfgs {
		t := DatabaseType(c.Driver)
		driver, err := t.DriverName()
		if err != nil {
			_ = m.Close()
			return nil, errors.Wrapf(err, "data source %s", c.Name)
		}

		db, err := sql.Open(driver, c.DSN)
		if err != nil {
			_ = m.Close()
			return nil, errors.Wrapf(err, "open data source %s", c.Name)
		}
		db.SetMaxOpenConns(c.MaxOpenConns)
		db.SetMaxIdleConns(c.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)

		if err := m.Register(c.Name, t, db); err != nil {
			_ = db.Close()
			_ = m.Close()
			return nil, err
		}
	}
	return m, nil
}

// Register adds an already opened pool under name.
func (m *Manager) Register(name string, t DatabaseType, db *sql.DB) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[name]; ok {
		return fmt.Errorf("data source %q already registered", name)
	}
	m.sources[name] = &Source{Name: name, Type: t, DB: db}
	m.order = append(m.order, name)
	logging.WithDataSource(name).Debug("data source registered", zap.String("type", string(t)))
	return nil
}

// Get returns the named data source.
func (m *Manager) Get(name string) (*Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown data source %q", name)
	}
	return s, nil
}

// Names returns the registered names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Connections acquires n dedicated connections from the named pool. Either all
// n are returned or none are held.
func (m *Manager) Connections(ctx context.Context, name string, n int) ([]*sql.Conn, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, err
	}

	conns := make([]*sql.Conn, 0, n)
	for i := 0; i < n; i++ {
		conn, err := s.DB.Conn(ctx)
		if err != nil {
			for _, c := range conns {
				_ = c.Close()
			}
			return nil, errors.Wrapf(err, "acquire connection %d/%d on %s", i+1, n, name)
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// Ping checks the named data source.
func (m *Manager) Ping(ctx context.Context, name string) error {
	s, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return errors.Wrapf(err, "ping data source %s", name)
	}
	return nil
}

// PingAll checks every data source concurrently and returns the first failure.
func (m *Manager) PingAll(ctx context.Context) error {
	m.mu.RLock()
	sources := make([]*Source, 0, len(m.order))
	for _, name := range m.order {
		sources = append(sources, m.sources[name])
	}
	m.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sources {
		s := s
		g.Go(func() error {
			if err := s.DB.PingContext(ctx); err != nil {
				return errors.Wrapf(err, "ping data source %s", s.Name)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close closes every pool. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	for _, name := range m.order {
		if cerr := m.sources[name].DB.Close(); cerr != nil {
			err = errors.CombineErrors(err, errors.Wrapf(cerr, "close data source %s", name))
		}
	}
	m.sources = make(map[string]*Source)
	m.order = nil
	return err
}
