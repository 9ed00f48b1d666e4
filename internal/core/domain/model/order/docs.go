// Package order implements the Order aggregate: its line items, monetary totals and the
// disposition state machine that drives an order from cart to delivery.
//
// The package includes:
//   - Order: the aggregate root, created as a NEW cart by NewCart
//   - LineItem, Modification, Option: priced selections owned by one order
//   - Disposition: the lifecycle graph, each move returning the next state or a guard violation
//   - Method: DELIVERY orders pass through a driver, PICKUP orders skip every driver state
//
// Key business rules:
//   - subtotal always equals the sum of line-item prices
//   - total is fixed when the charge succeeds and never changes afterwards
//   - CANCELED is reachable from every non-terminal state; DELIVERED and CANCELED are final
//   - a driver rejection returns the order to ACCEPTED_BY_VENDOR, any number of times before pickup
package order
