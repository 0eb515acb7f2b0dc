package log

import "context"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldYear        = "year"
	FieldGroupID     = "group_id"
	FieldExpenseID   = "expense_id"
	FieldExpenseDesc = "expense_description"
	FieldExpenseDate = "expense_date"
	FieldPlayer      = "player"
	FieldAmount      = "amount"
	FieldWeek        = "week"
	FieldCount       = "count"
	FieldOffset      = "offset"
	FieldRef         = "ref"
	FieldPath        = "path"
	FieldFetched     = "fetched"
	FieldExcluded    = "excluded"
	FieldUnparseable = "unparseable"
	FieldOutsideYear = "outside_year"
	FieldKept        = "kept"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentPipeline  = "pipeline"
	ComponentSplitwise = "splitwise"
	ComponentSheets    = "sheets"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentService   = "service"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpFilter    = "filter"
	OpParse     = "parse"
	OpAggregate = "aggregate"
	OpExport    = "export"
	OpPublish   = "publish"
	OpCache     = "cache"
	OpRecord    = "record"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id int64, desc, date string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseDesc] = desc
	f[FieldExpenseDate] = date
	return f
}

// WithRun adds the year and group a run is computed for
func (f LogFields) WithRun(year int, groupID int64) LogFields {
	f[FieldYear] = year
	f[FieldGroupID] = groupID
	return f
}

// WithStats adds pipeline counters
func (f LogFields) WithStats(fetched, excluded, unparseable, outsideYear, kept int) LogFields {
	f[FieldFetched] = fetched
	f[FieldExcluded] = excluded
	f[FieldUnparseable] = unparseable
	f[FieldOutsideYear] = outsideYear
	f[FieldKept] = kept
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

// StructuredLogger provides domain logging helpers
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: OrNop(logger),
	}
}

// LogRunCompleted logs the counters of a finished leaderboard run
func (sl *StructuredLogger) LogRunCompleted(ctx context.Context, year int, groupID int64, fetched, excluded, unparseable, outsideYear, kept int) {
	fields := NewFields().
		WithRun(year, groupID).
		WithStats(fetched, excluded, unparseable, outsideYear, kept).
		WithOperation(OpAggregate)

	sl.logger.InfoContext(ctx, "Leaderboard computed", fields.ToSlice()...)
}

// LogExpenseSkipped logs an expense dropped because its date could not be parsed
func (sl *StructuredLogger) LogExpenseSkipped(ctx context.Context, id int64, desc, date string, err error) {
	fields := NewFields().
		WithExpense(id, desc, date).
		WithOperation(OpParse).
		WithError(err)

	sl.logger.WarnContext(ctx, "Skipping expense with unparseable date", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
