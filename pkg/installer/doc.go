// Package installer drives one mod install transaction: it validates the
// script's overall dependency, resolves install steps through a chooser,
// applies required, chosen and conditional files through the game-dir
// collaborator, and records every change in the mod's ledger so the
// transaction can be exactly reversed later.
//
// The driver is cooperative about cancellation: the context is polled at
// every loop-iteration boundary, never mid-copy of a single file. A
// cancelled transaction is abandoned, not rolled back; the ledger reflects
// exactly the files completed, and the surrounding system either finishes
// the install later or uninstalls the partial result.
package installer
