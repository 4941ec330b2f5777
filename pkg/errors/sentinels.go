package errors

// Pre-defined errors shared across the service. Handlers and tests compare
// against these with errors.Is.

var (
	// Tree errors
	ErrTreeNotFound = New(
		ErrorTypeNotFound,
		"TREE_NOT_FOUND",
		"The requested decision tree does not exist",
	)

	ErrInvalidOption = New(
		ErrorTypeValidation,
		"INVALID_OPTION",
		"The selected option is not available on the current node",
	)

	ErrInvalidTreeState = New(
		ErrorTypeInvalidState,
		"INVALID_TREE_STATE",
		"The tree's current-node pointer references a missing node",
	)

	ErrDuplicateBranch = New(
		ErrorTypeConflict,
		"DUPLICATE_BRANCH",
		"A child already exists for this node and option",
	)

	// Completion service errors
	ErrCompletionFailed = New(
		ErrorTypeUpstream,
		"COMPLETION_FAILED",
		"The completion service call failed",
	).WithRetryable(true)

	ErrEmptyCompletion = New(
		ErrorTypeUpstream,
		"EMPTY_COMPLETION",
		"The completion service returned no choices",
	).WithRetryable(true)

	// Persistence errors
	ErrTreeStorage = New(
		ErrorTypeStorage,
		"TREE_STORAGE_FAILED",
		"Failed to read or write the decision tree store",
	).WithRetryable(true)

	ErrAdvisorStorage = New(
		ErrorTypeStorage,
		"ADVISOR_STORAGE_FAILED",
		"Failed to read or write the advisor profile store",
	).WithRetryable(true)

	// Auth errors
	ErrUnauthorized = New(
		ErrorTypeUnauthorized,
		"UNAUTHORIZED",
		"Missing or invalid credentials",
	)
)
