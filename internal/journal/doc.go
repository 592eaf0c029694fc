// Package journal keeps a local SQLite record of stash ID submissions and
// guards each scene with a file lock so only one process submits for it at a
// time.
//
// The journal observes outcomes after the fact. Writing to it never changes
// what the dialog reports to the user.
package journal
