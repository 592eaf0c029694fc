// Package preflight provides readiness checks for the Stash server and the
// local state customid depends on.
//
// The "customid ping" command runs RunAll and prints one status line per
// check. The journal check is skipped when the journal is disabled.
package preflight
