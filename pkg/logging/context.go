package logging

import (
	"go.uber.org/zap"
)

// WithQuery creates a logger with query context.
// Use this to automatically include the query id in all logs of one execution.
//
// Example:
//
//	log := logging.WithQuery(ctx.QueryID)
//	log.Info("operator tree built")
func WithQuery(queryID string) *zap.Logger {
	return GetLogger().With(zap.String("query_id", queryID))
}

// WithOperator creates a logger with operator context.
//
// Example:
//
//	log := logging.WithOperator(queryID, "NestedLoopJoin")
//	log.Debug("inner side buffered", zap.Int("rows", n))
func WithOperator(queryID, operator string) *zap.Logger {
	return GetLogger().With(zap.String("query_id", queryID), zap.String("operator", operator))
}

// WithDataSource creates a logger with data source context.
// Useful for connection acquisition and statement execution.
func WithDataSource(dataSource string) *zap.Logger {
	return GetLogger().With(zap.String("data_source", dataSource))
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("planner")
//	log.Info("component initialized")
func WithComponent(component string) *zap.Logger {
	return GetLogger().With(zap.String("component", component))
}

// WithError creates a logger with error context.
func WithError(err error) *zap.Logger {
	return GetLogger().With(zap.Error(err))
}
