// Package domain contains the core types of the deskhand conversation
// engine: the step enumeration and its transition table, the conversation
// snapshot threaded through each turn, the assistant response envelope, and
// the support ticket produced once a conversation completes.
//
// Everything in this package is plain data. The engine (internal/engine)
// operates on copies of these values and never mutates a caller's snapshot.
package domain
