// Package services provides the domain services that span more than one aggregate.
//
// The package includes:
//   - RouteDispatcher: pairs driver-side order transitions with the driver's route
//   - SummaryLedger: moves order references between participant order sets
//
// Both are stateless and pure. Persisting the aggregates they touch in one unit of
// work is left to the command handlers.
package services
