// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Value errors describe invalid input to domain constructors:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its bounds
//   - ObjectNotFoundError: For when an aggregate cannot be found
//   - VersionIsInvalidError: For when a restored aggregate carries an impossible version
//
// Lifecycle errors classify failed order transitions:
//   - GuardViolationError: A transition precondition was not met
//   - ConcurrentConflictError: An optimistic version check rejected a stale writer
//   - ExternalFailureError: A payment, directory, or broker call failed
//   - ConsistencyFailureError: A multi-aggregate write could not be applied as a unit
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for errors.Is classification
package errs
