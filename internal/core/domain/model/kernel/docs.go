// Package kernel holds the value objects shared by every aggregate of the dispatch domain.
//
//   - UUID: identifiers for orders, routes, participants, addresses and settings
//   - Money: exact non-negative amounts backed by shopspring/decimal
//   - GeoPoint: validated latitude/longitude of a delivery address
//
// All types are immutable. UUID and GeoPoint reject their zero values; Money treats
// its zero value as 0.00.
package kernel
