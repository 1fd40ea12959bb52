// pkg/ledger/store_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Test ledger persistence, listing, deletion and cross-mod
// file-claim queries

package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/paths"
)

func setupStore(t *testing.T) *ledger.Store {
	t.Helper()

	t.Setenv(paths.EnvGameDir, t.TempDir())
	t.Setenv(paths.EnvDataDir, t.TempDir())

	p, err := paths.New(paths.Options{})
	require.NoError(t, err)

	return ledger.NewStore(filesystem.NewMemory(), p)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := setupStore(t)

	l := ledger.New()
	l.AddFile("data/plugin.esp")
	l.AddIniEdit("game.ini", "display", "isize", "2048")

	meta := ledger.Meta{
		Name:        "Example Mod",
		Version:     "1.2",
		InstalledAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(meta, l))

	got, gotMeta, err := store.Load("Example Mod")
	require.NoError(t, err)
	assert.True(t, got.ContainsFile("Data/Plugin.esp"))
	assert.Equal(t, "Example Mod", gotMeta.Name)
	assert.Equal(t, "1.2", gotMeta.Version)

	installed, err := store.IsInstalled("example mod")
	require.NoError(t, err)
	assert.True(t, installed, "mod keys fold case")
}

func TestStore_LoadMissing(t *testing.T) {
	store := setupStore(t)

	_, _, err := store.Load("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModNotInstalled))
}

func TestStore_SaveWithoutName(t *testing.T) {
	store := setupStore(t)

	err := store.Save(ledger.Meta{}, ledger.New())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestStore_ListAndDelete(t *testing.T) {
	store := setupStore(t)

	for _, name := range []string{"Alpha", "Beta"} {
		l := ledger.New()
		l.AddFile(name + ".esp")
		require.NoError(t, store.Save(ledger.Meta{Name: name, InstalledAt: time.Now()}, l))
	}

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)

	require.NoError(t, store.Delete("Alpha"))

	metas, err = store.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "Beta", metas[0].Name)

	// Deleting a mod with no state is fine.
	require.NoError(t, store.Delete("Alpha"))
}

func TestStore_FileClaimedByOther(t *testing.T) {
	store := setupStore(t)

	shared := ledger.New()
	shared.AddFile("textures/shared.dds")
	require.NoError(t, store.Save(ledger.Meta{Name: "First", InstalledAt: time.Now()}, shared))

	mine := ledger.New()
	mine.AddFile("textures/shared.dds")
	mine.AddFile("meshes/only-mine.nif")
	require.NoError(t, store.Save(ledger.Meta{Name: "Second", InstalledAt: time.Now()}, mine))

	claimed, err := store.FileClaimedByOther(`Textures\Shared.DDS`, "Second")
	require.NoError(t, err)
	assert.True(t, claimed, "First still owns the shared texture")

	claimed, err = store.FileClaimedByOther("meshes/only-mine.nif", "Second")
	require.NoError(t, err)
	assert.False(t, claimed)
}
