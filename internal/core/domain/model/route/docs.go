// Package route implements the delivery route aggregate: one driver's ordered queue of
// claimed orders. Orders are appended when a driver claims them and removed on
// rejection, delivery or cancellation.
package route
