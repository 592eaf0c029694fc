// Package dialog implements the add-ID dialog: a small state machine that
// collects an instance URL and a stash ID, checks for duplicates, allocates
// the next free endpoint variant, and writes the extended list back to Stash.
//
// The controller moves between three states. Closed is idle. Open accepts
// edits and a confirm or cancel. Submitting has its controls disabled while
// the fetch and replace round trips run; it ends in Closed on success or
// duplicate, and falls back to Open with an error notice on failure.
//
// Terminal front ends drive a Controller through Prompt, which reads both
// fields from an io.Reader and re-prompts after recoverable failures.
package dialog
