// Package ledger implements the per-mod change ledger: a record of every
// file a mod installed, every INI key and game-specific value it changed,
// and backups of whatever those changes displaced. The ledger is the source
// of truth for exact reversal — uninstalling replays it through the same
// collaborators that applied it.
//
// All identities are case-insensitive and stored in canonical lowercase
// form with unified path separators. Edit entries keep only the latest
// value per key; backup ("original") entries keep only the first value ever
// recorded for a key, so a careless second backup call can never clobber
// the true pre-install state.
//
// The ledger performs no I/O of its own; Store persists it.
package ledger
