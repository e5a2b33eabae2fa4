// Package log defines standard attribute keys for curve fitting operations.
//
// Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so log output can be filtered by category.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the model variant.
	// Examples: "Linear", "Log10Log10"
	ModelNameKey = "model.name"

	// ParamsKey carries the fitted parameter vector.
	ParamsKey = "model.params"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "render"
	OperationKey = "op.name"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "fit", "solver", "preprocessing"
	ComponentKey = "op.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey is the number of rows handed to the solver.
	SamplesKey = "data.samples"

	// DroppedKey is the number of rows removed by sanitization.
	DroppedKey = "data.dropped"

	// SigmaModeKey records how uncertainties were interpreted.
	// Values: SigmaNone, SigmaRelative, SigmaAbsolute
	SigmaModeKey = "data.sigma_mode"
)

// Solver progress and quality
const (
	// IterationKey records the number of solver iterations.
	IterationKey = "solver.iterations"

	// StatusKey records the solver termination status.
	StatusKey = "solver.status"

	// RSSKey records the (weighted) residual sum of squares.
	RSSKey = "fit.rss"

	// R2ScoreKey records R² coefficient of determination.
	R2ScoreKey = "fit.r2_score"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationRender  = "render"

	SigmaNone     = "none"
	SigmaRelative = "relative"
	SigmaAbsolute = "absolute"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInsufficientData  = "INSUFFICIENT_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
