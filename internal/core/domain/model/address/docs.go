// Package address implements the customer address book entry used as a delivery
// destination. Addresses referenced by placed orders are frozen.
package address
