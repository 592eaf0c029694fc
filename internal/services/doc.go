// Package services defines shared utilities consumed by the store client, the
// dialog controller, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp scene IDs and correlation identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so every failure can be
//     classified as "let the user retry" or "feature unavailable".
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
