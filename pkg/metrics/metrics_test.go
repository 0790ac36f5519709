package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := Registry()
	require.Same(t, reg, Registry())

	ObserveRows("Sort", 3)
	ObserveRows("Sort", 2)
	assert.Equal(t, 5.0, testutil.ToFloat64(OperatorRowsCounter.WithLabelValues("Sort")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "shardexec_operator_rows_total")
}
