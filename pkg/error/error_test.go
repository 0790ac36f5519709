package error

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappers_RecordOperation(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		category  ErrorCategory
		operation string
		component string
	}{
		{
			name:      "row failed while advancing",
			err:       RowFailed(io.ErrUnexpectedEOF, "MoveNext", "ResultOperator"),
			code:      CodeRowMaterialization,
			category:  ErrCategoryData,
			operation: "MoveNext",
			component: "ResultOperator",
		},
		{
			name:      "row failed while projecting",
			err:       RowFailed(io.ErrUnexpectedEOF, "Current", "CalcOperator"),
			code:      CodeRowMaterialization,
			category:  ErrCategoryData,
			operation: "Current",
			component: "CalcOperator",
		},
		{
			name:      "init failed",
			err:       InitFailed(io.ErrClosedPipe, "ScanOperator"),
			code:      CodeInitFailed,
			category:  ErrCategorySystem,
			operation: "Init",
			component: "ScanOperator",
		},
		{
			name:      "invalid argument",
			err:       InvalidArgument("SortOperator", "child operator cannot be nil"),
			code:      CodeInvalidArgument,
			category:  ErrCategoryUser,
			component: "SortOperator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dbErr *DBError
			require.True(t, errors.As(tt.err, &dbErr))
			assert.Equal(t, tt.code, dbErr.Code)
			assert.Equal(t, tt.category, dbErr.Category)
			assert.Equal(t, tt.operation, dbErr.Operation)
			assert.Equal(t, tt.component, dbErr.Component)
			assert.True(t, HasCode(tt.err, tt.code))
		})
	}
}

func TestWrap_KeepsExistingContext(t *testing.T) {
	inner := RowFailed(io.ErrUnexpectedEOF, "MoveNext", "ResultOperator")
	outer := InitFailed(inner, "MergeSortOperator")

	var dbErr *DBError
	require.True(t, errors.As(outer, &dbErr))
	assert.Equal(t, CodeRowMaterialization, dbErr.Code)
	assert.Equal(t, "MoveNext", dbErr.Operation)
	assert.Equal(t, "ResultOperator", dbErr.Component)
	assert.True(t, errors.Is(outer, io.ErrUnexpectedEOF))
}

func TestNilPassesThrough(t *testing.T) {
	assert.NoError(t, RowFailed(nil, "MoveNext", "ResultOperator"))
	assert.NoError(t, InitFailed(nil, "ScanOperator"))
}

func TestDBError_Error(t *testing.T) {
	err := RowFailed(io.ErrUnexpectedEOF, "MoveNext", "ResultOperator")
	assert.Equal(t,
		"[ROW_MATERIALIZATION_FAILED] unexpected EOF (operation: MoveNext, component: ResultOperator)",
		err.Error())
}
