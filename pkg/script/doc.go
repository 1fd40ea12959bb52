// Package script parses a mod's XML install script into the data model the
// install driver consumes: header metadata, the mod's overall dependency,
// install steps with option groups, unconditional files and INI edits, and
// conditional file install patterns.
//
// Dependency expressions — file state, condition flags, and And/Or
// composites — are also defined here. They evaluate against a live
// types.DependencyState, so a pattern checked late in a transaction sees
// the files and flags applied earlier in the same transaction.
package script
