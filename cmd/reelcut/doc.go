// Package main hosts the reelcut CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into catalog
// operations: boundary detection over captures, clip splitting, thumbnail
// and transcript generation, and gallery rendering. It centralizes
// configuration resolution, workspace locking, and structured logging setup
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
