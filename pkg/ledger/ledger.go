package ledger

import (
	"sort"
	"strings"

	"github.com/modtide/modtide/pkg/types"
)

// IniKey identifies one INI edit by file, section and key. All three
// components are case-folded; the file component also gets its separators
// unified, since it names a file under the game tree.
type IniKey struct {
	File    string
	Section string
	Key     string
}

// NewIniKey builds the canonical key for an INI edit.
func NewIniKey(file, section, key string) IniKey {
	return IniKey{
		File:    types.NormalizePath(file),
		Section: strings.ToLower(section),
		Key:     strings.ToLower(key),
	}
}

// Less orders keys by file, then section, then key, using ordinal string
// comparison. This is the documented enumeration order.
func (k IniKey) Less(other IniKey) bool {
	if k.File != other.File {
		return k.File < other.File
	}
	if k.Section != other.Section {
		return k.Section < other.Section
	}
	return k.Key < other.Key
}

// Ledger is one mod's change record. It is created empty when the mod's
// install transaction begins, populated during that transaction, persisted
// by Store, and read back in full for uninstall.
//
// Ledger is not safe for concurrent use; a transaction owns it exclusively.
type Ledger struct {
	files              map[string]struct{}
	replacedFiles      map[string]struct{}
	iniEdits           map[IniKey]string
	iniOriginals       map[IniKey]string
	gameValues         map[string][]byte
	gameValueOriginals map[string][]byte
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		files:              make(map[string]struct{}),
		replacedFiles:      make(map[string]struct{}),
		iniEdits:           make(map[IniKey]string),
		iniOriginals:       make(map[IniKey]string),
		gameValues:         make(map[string][]byte),
		gameValueOriginals: make(map[string][]byte),
	}
}

// ContainsFile reports whether the mod installed a file at the given path.
// The check is case-insensitive and separator-agnostic.
func (l *Ledger) ContainsFile(path string) bool {
	_, ok := l.files[types.NormalizePath(path)]
	return ok
}

// AddFile records that the mod installed a file at the given path. Adding
// the same path twice, in any case or separator style, keeps exactly one
// entry.
func (l *Ledger) AddFile(path string) {
	l.files[types.NormalizePath(path)] = struct{}{}
}

// Files returns every installed path in canonical form, sorted.
func (l *Ledger) Files() []string {
	return sortedKeys(l.files)
}

// BackupOriginalFile records that a pre-existing file at the given path was
// displaced by the install. The first call for a path wins; later calls
// are no-ops.
func (l *Ledger) BackupOriginalFile(path string) {
	norm := types.NormalizePath(path)
	if _, ok := l.replacedFiles[norm]; ok {
		return
	}
	l.replacedFiles[norm] = struct{}{}
}

// HasOriginalFile reports whether a displaced original was recorded for the
// given path.
func (l *Ledger) HasOriginalFile(path string) bool {
	_, ok := l.replacedFiles[types.NormalizePath(path)]
	return ok
}

// ReplacedFiles returns every displaced-original path in canonical form,
// sorted.
func (l *Ledger) ReplacedFiles() []string {
	return sortedKeys(l.replacedFiles)
}

// AddIniEdit records the value the mod set an INI key to. Re-editing the
// same key updates the entry in place: the ledger keeps the mod's current
// desired value, not its history.
func (l *Ledger) AddIniEdit(file, section, key, value string) {
	l.iniEdits[NewIniKey(file, section, key)] = value
}

// IniEditValue returns the recorded value for an INI key, if any.
func (l *Ledger) IniEditValue(file, section, key string) (string, bool) {
	v, ok := l.iniEdits[NewIniKey(file, section, key)]
	return v, ok
}

// IniEdits returns every INI edit sorted by (file, section, key).
func (l *Ledger) IniEdits() []types.IniEdit {
	return iniEntries(l.iniEdits)
}

// BackupOriginalIniValue records the value an INI key held before the mod's
// first edit. The first call for a key wins; later calls are no-ops, so the
// true original can never be overwritten within a transaction.
func (l *Ledger) BackupOriginalIniValue(file, section, key, value string) {
	k := NewIniKey(file, section, key)
	if _, ok := l.iniOriginals[k]; ok {
		return
	}
	l.iniOriginals[k] = value
}

// OriginalIniValue returns the recorded pre-install value for an INI key,
// if any.
func (l *Ledger) OriginalIniValue(file, section, key string) (string, bool) {
	v, ok := l.iniOriginals[NewIniKey(file, section, key)]
	return v, ok
}

// OriginalIniValues returns every recorded original sorted by
// (file, section, key).
func (l *Ledger) OriginalIniValues() []types.IniEdit {
	return iniEntries(l.iniOriginals)
}

// AddGameValueEdit records the payload the mod set a game-specific value
// to. Latest write wins. The payload is copied.
func (l *Ledger) AddGameValueEdit(key string, data []byte) {
	l.gameValues[strings.ToLower(key)] = cloneBytes(data)
}

// GameValueEdit returns the recorded payload for a key, if any.
func (l *Ledger) GameValueEdit(key string) ([]byte, bool) {
	v, ok := l.gameValues[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	return cloneBytes(v), true
}

// GameValueEdits returns every game-specific value edit sorted by key.
func (l *Ledger) GameValueEdits() []types.GameValueEdit {
	return gameValueEntries(l.gameValues)
}

// BackupOriginalGameValue records the payload a game-specific value held
// before the mod's first edit. First call wins.
func (l *Ledger) BackupOriginalGameValue(key string, data []byte) {
	k := strings.ToLower(key)
	if _, ok := l.gameValueOriginals[k]; ok {
		return
	}
	l.gameValueOriginals[k] = cloneBytes(data)
}

// OriginalGameValue returns the recorded pre-install payload for a key, if
// any.
func (l *Ledger) OriginalGameValue(key string) ([]byte, bool) {
	v, ok := l.gameValueOriginals[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	return cloneBytes(v), true
}

// OriginalGameValues returns every recorded original sorted by key.
func (l *Ledger) OriginalGameValues() []types.GameValueEdit {
	return gameValueEntries(l.gameValueOriginals)
}

// Empty reports whether the ledger records no changes at all.
func (l *Ledger) Empty() bool {
	return len(l.files) == 0 &&
		len(l.replacedFiles) == 0 &&
		len(l.iniEdits) == 0 &&
		len(l.iniOriginals) == 0 &&
		len(l.gameValues) == 0 &&
		len(l.gameValueOriginals) == 0
}

// FileCount returns the number of installed files.
func (l *Ledger) FileCount() int {
	return len(l.files)
}

// EditCount returns the number of INI and game-specific value edits.
func (l *Ledger) EditCount() int {
	return len(l.iniEdits) + len(l.gameValues)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func iniEntries(m map[IniKey]string) []types.IniEdit {
	keys := make([]IniKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	out := make([]types.IniEdit, len(keys))
	for i, k := range keys {
		out[i] = types.IniEdit{File: k.File, Section: k.Section, Key: k.Key, Value: m[k]}
	}
	return out
}

func gameValueEntries(m map[string][]byte) []types.GameValueEdit {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.GameValueEdit, len(keys))
	for i, k := range keys {
		out[i] = types.GameValueEdit{Key: k, Data: cloneBytes(m[k])}
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
