// Package canon converts the loosely-typed nested structures produced
// by the data-access layer into the canonical shapes defined in
// pkg/types, and checks conformance before they cross the protocol
// boundary.
//
// The package has four parts: a read-only contract registry describing
// each shape's fields, per-shape standardizers that map raw input onto
// typed values, an advisory structural validator, and the envelope
// builders that wrap every outward response. All of it is pure,
// stateless, and safe for concurrent use.
package canon
