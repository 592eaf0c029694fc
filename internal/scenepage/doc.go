// Package scenepage decides when the add-ID dialog is available. It
// recognises scene locations, waits a bounded time for the scene to become
// visible in Stash, and owns the single dialog instance shared by every
// attachment.
package scenepage
