// Package main hosts the customid CLI, which adds custom stash IDs to Stash
// scenes.
//
// The Cobra command tree resolves configuration once, builds the Stash client
// and journal on demand, and drives the add-ID dialog either interactively on
// the terminal or from flags.
package main
