// Package participant holds the order summaries of the three parties of an order.
//
// Customer, Vendor and Driver all implement OrderHolder: an active set for orders in
// flight and a history set for delivered or canceled ones. The customer additionally
// holds one open cart. Every set move is paired with the disposition change that
// causes it.
package participant
