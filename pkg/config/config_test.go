package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/logging"
)

const sampleConfig = `
[props]
executor-size = 4
max-connections-size-per-query = 2
sql-show = true

[[data-sources]]
name = "ds_0"
driver = "sqlite3"
dsn = "file:ds0?mode=memory"

[[data-sources]]
name = "ds_1"
driver = "mysql"
dsn = "root:root@tcp(127.0.0.1:3306)/demo_ds_1"
max-open-conns = 32

[log]
level = "DEBUG"
format = "json"
`

func TestParse(t *testing.T) {
	c, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, 4, c.Props.ExecutorSize)
	assert.Equal(t, 2, c.Props.MaxConnectionsSizePerQuery)
	assert.Equal(t, DefaultPreparedStatementCacheSize, c.Props.PreparedStatementCacheSize)
	assert.True(t, c.Props.SQLShow)

	require.Len(t, c.DataSources, 2)
	assert.Equal(t, []string{"ds_0", "ds_1"}, c.DataSourceNames())
	assert.Equal(t, DefaultMaxOpenConnsPerDataSource, c.DataSources[0].MaxOpenConns)
	assert.Equal(t, 32, c.DataSources[1].MaxOpenConns)

	assert.Equal(t, logging.LevelDebug, c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), c.Props.ExecutorSize)
	assert.Equal(t, DefaultMaxConnectionsSizePerQuery, c.Props.MaxConnectionsSizePerQuery)
	assert.Equal(t, logging.LevelInfo, c.Log.Level)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad toml", "[props"},
		{"unknown key", "[props]\nexecutor-threads = 3"},
		{"negative executor size", "[props]\nexecutor-size = -1"},
		{"zero connections", "[props]\nmax-connections-size-per-query = 0"},
		{"unsupported driver", "[[data-sources]]\nname = \"a\"\ndriver = \"oracle\"\ndsn = \"x\""},
		{"missing dsn", "[[data-sources]]\nname = \"a\"\ndriver = \"mysql\""},
		{"missing name", "[[data-sources]]\ndriver = \"mysql\"\ndsn = \"x\""},
		{"duplicate name", "[[data-sources]]\nname = \"a\"\ndriver = \"sqlite3\"\ndsn = \"x\"\n[[data-sources]]\nname = \"a\"\ndriver = \"sqlite3\"\ndsn = \"y\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardexec.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.DataSources, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
