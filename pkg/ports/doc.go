// Package ports defines the interfaces between the deskhand core and its
// adapters: conversation and ticket persistence, event broadcasting, and
// distributed locking. Adapters live under internal/adapters.
package ports
