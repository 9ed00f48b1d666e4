// Package ports defines the contracts between the core and its adapters: repositories
// and the unit of work for persistence, and the external payment gateway, notifier and
// driver directory.
package ports
