package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one CLI invocation.
	FieldRunID = "run_id"
	// FieldCommand is the CLI subcommand being executed.
	FieldCommand = "command"
	// FieldPerson is the respondent or roster member a line refers to.
	FieldPerson = "person"
	// FieldField is the response or roster field a line refers to.
	FieldField = "field"
	// FieldPath is a file path read or written.
	FieldPath = "path"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
