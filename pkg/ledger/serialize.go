package ledger

import (
	"encoding/json"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// document is the durable JSON shape of a ledger. Slices are emitted in the
// documented enumeration order so that serialization is deterministic.
type document struct {
	InstalledFiles     []string          `json:"installed_files"`
	ReplacedFiles      []string          `json:"replaced_files"`
	IniEdits           []iniRecord       `json:"ini_edits"`
	IniOriginals       []iniRecord       `json:"ini_originals"`
	GameValueEdits     []gameValueRecord `json:"game_value_edits"`
	GameValueOriginals []gameValueRecord `json:"game_value_originals"`
}

type iniRecord struct {
	File    string `json:"file"`
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

type gameValueRecord struct {
	Key  string `json:"key"`
	Data []byte `json:"data"`
}

// Encode serializes the ledger. Decoding the result yields an equivalent
// ledger: same membership, same latest value per edit key, same first-write
// value per original key.
func (l *Ledger) Encode() ([]byte, error) {
	doc := document{
		InstalledFiles:     l.Files(),
		ReplacedFiles:      l.ReplacedFiles(),
		IniEdits:           iniRecords(l.IniEdits()),
		IniOriginals:       iniRecords(l.OriginalIniValues()),
		GameValueEdits:     gameValueRecords(l.GameValueEdits()),
		GameValueOriginals: gameValueRecords(l.OriginalGameValues()),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLedgerSave, "failed to encode ledger")
	}
	return data, nil
}

// Decode rebuilds a ledger from its serialized form.
func Decode(data []byte) (*Ledger, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrLedgerLoad, "failed to decode ledger")
	}

	l := New()
	for _, p := range doc.InstalledFiles {
		l.AddFile(p)
	}
	for _, p := range doc.ReplacedFiles {
		l.BackupOriginalFile(p)
	}
	for _, r := range doc.IniEdits {
		l.AddIniEdit(r.File, r.Section, r.Key, r.Value)
	}
	for _, r := range doc.IniOriginals {
		l.BackupOriginalIniValue(r.File, r.Section, r.Key, r.Value)
	}
	for _, r := range doc.GameValueEdits {
		l.AddGameValueEdit(r.Key, r.Data)
	}
	for _, r := range doc.GameValueOriginals {
		l.BackupOriginalGameValue(r.Key, r.Data)
	}
	return l, nil
}

func iniRecords(edits []types.IniEdit) []iniRecord {
	out := make([]iniRecord, len(edits))
	for i, e := range edits {
		out[i] = iniRecord{File: e.File, Section: e.Section, Key: e.Key, Value: e.Value}
	}
	return out
}

func gameValueRecords(edits []types.GameValueEdit) []gameValueRecord {
	out := make([]gameValueRecord, len(edits))
	for i, e := range edits {
		out[i] = gameValueRecord{Key: e.Key, Data: e.Data}
	}
	return out
}
