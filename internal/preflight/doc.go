// Package preflight provides readiness checks for the tools and filesystem
// paths a processing run depends on.
//
// The process command calls RunAll before touching a capture: a multi-hour
// transcode that fails at the end for a missing binary or a full disk is the
// worst possible outcome. The CLI also surfaces individual checks so a user
// can diagnose a failing setup.
package preflight
