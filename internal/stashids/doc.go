// Package stashids models the stash ID bindings attached to a Stash scene and
// the pure rules used when appending a new one.
//
// A binding pairs an endpoint (the GraphQL URL of an external instance) with an
// opaque ID. Several IDs may live under one logical instance by suffixing the
// base endpoint with an integer; Allocate picks the next free variant and
// Exists reports whether an (instance, ID) pair is already present. Both are
// deterministic and never touch the network so callers can run them against a
// freshly fetched Set right before writing.
package stashids
