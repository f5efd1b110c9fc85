// Package types defines the canonical response shapes, the Store
// interface, and standard error types for the Satchel knowledge store.
// Every value that crosses the protocol boundary is one of the shapes
// declared here, wrapped in an Envelope.
package types
