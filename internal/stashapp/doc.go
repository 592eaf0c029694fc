// Package stashapp is the store client for the Stash GraphQL API.
//
// Client exposes the two round trips customid needs: FetchIDs reads a scene's
// stash ID list and ReplaceIDs overwrites it wholesale. Neither merges nor
// retries; callers read, rebuild the full list locally, and write it back.
// Failures carry services.ErrLookup or services.ErrPersist so the dialog can
// surface them uniformly. Every call is wrapped in an OpenTelemetry span; a
// no-op tracer is used unless a provider is supplied.
package stashapp
