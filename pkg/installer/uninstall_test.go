// pkg/installer/uninstall_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem, ledger store
// PURPOSE: Test ledger replay on uninstall: restores, removals, shared
//          file ownership and edit reversion

package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/gamedir"
	"github.com/modtide/modtide/pkg/gamevalues"
	"github.com/modtide/modtide/pkg/iniedit"
	"github.com/modtide/modtide/pkg/installer"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/paths"
	"github.com/modtide/modtide/pkg/plugins"
	"github.com/modtide/modtide/pkg/types"
)

// uenv wires a store and collaborators for uninstall tests. The game-dir
// backup area matches what the store's path layout prescribes per mod.
type uenv struct {
	fs      types.FS
	paths   paths.Paths
	store   *ledger.Store
	plugins *plugins.Activator
	ini     *iniedit.Editor
	values  *gamevalues.Store
}

func newUninstallEnv(t *testing.T) *uenv {
	t.Helper()
	t.Setenv(paths.EnvGameDir, "/game")
	t.Setenv(paths.EnvDataDir, "/data")

	p, err := paths.New(paths.Options{})
	require.NoError(t, err)

	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(p.GameDir(), 0755))

	return &uenv{
		fs:      fs,
		paths:   p,
		store:   ledger.NewStore(fs, p),
		plugins: plugins.New(fs, p.PluginsFilePath()),
		ini:     iniedit.New(fs, p.GameDir()),
		values:  gamevalues.New(fs, p.CacheDir()+"/values.json"),
	}
}

func (e *uenv) gameFilesFor(mod string) *gamedir.Manager {
	return gamedir.New(e.fs, e.paths.GameDir(), "", e.paths.BackupsDir(mod))
}

func (e *uenv) uninstallerFor(t *testing.T, mod string) *installer.Uninstaller {
	t.Helper()
	u, err := installer.NewUninstaller(installer.UninstallOptions{
		Store:      e.store,
		GameFiles:  e.gameFilesFor(mod),
		Plugins:    e.plugins,
		Ini:        e.ini,
		GameValues: e.values,
	})
	require.NoError(t, err)
	return u
}

func (e *uenv) save(t *testing.T, name string, l *ledger.Ledger) {
	t.Helper()
	require.NoError(t, e.store.Save(ledger.Meta{Name: name, InstalledAt: time.Now()}, l))
}

func TestUninstall_RestoresAndRemoves(t *testing.T) {
	e := newUninstallEnv(t)
	game := e.gameFilesFor("mymod")

	// Recreate the state an install left behind: one overwritten file
	// (backed up), one new plugin (activated), one edited INI key, one
	// introduced INI key, and the same pair for game values.
	require.NoError(t, e.fs.WriteFile("/game/shaders.cfg", []byte("stock"), 0644))
	require.NoError(t, game.BackupTarget("shaders.cfg"))
	require.NoError(t, e.fs.WriteFile("/game/shaders.cfg", []byte("modded"), 0644))

	require.NoError(t, e.fs.WriteFile("/game/plugin.esp", []byte("p"), 0644))
	require.NoError(t, e.plugins.SetPluginActivation("plugin.esp", true))

	require.NoError(t, e.ini.SetValue("game.ini", "Display", "Width", "1920"))
	require.NoError(t, e.ini.SetValue("game.ini", "Display", "FullScreen", "1"))

	require.NoError(t, e.values.SetValue("SInvalidationFile", []byte("after")))
	require.NoError(t, e.values.SetValue("NewKey", []byte("x")))

	l := ledger.New()
	l.AddFile("shaders.cfg")
	l.BackupOriginalFile("shaders.cfg")
	l.AddFile("plugin.esp")
	l.AddIniEdit("game.ini", "Display", "Width", "1920")
	l.BackupOriginalIniValue("game.ini", "Display", "Width", "1024")
	l.AddIniEdit("game.ini", "Display", "FullScreen", "1")
	l.AddGameValueEdit("SInvalidationFile", []byte("after"))
	l.BackupOriginalGameValue("SInvalidationFile", []byte("before"))
	l.AddGameValueEdit("NewKey", []byte("x"))
	e.save(t, "mymod", l)

	require.NoError(t, e.uninstallerFor(t, "mymod").Run(context.Background(), "mymod"))

	data, err := e.fs.ReadFile("/game/shaders.cfg")
	require.NoError(t, err)
	assert.Equal(t, "stock", string(data), "overwritten file restored from backup")

	_, err = e.fs.Stat("/game/plugin.esp")
	assert.Error(t, err, "introduced file removed")

	active, err := e.plugins.IsPluginActive("plugin.esp")
	require.NoError(t, err)
	assert.False(t, active)

	v, found, err := e.ini.Value("game.ini", "Display", "Width")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1024", v, "edited key reverted to original")

	_, found, err = e.ini.Value("game.ini", "Display", "FullScreen")
	require.NoError(t, err)
	assert.False(t, found, "introduced key deleted")

	gv, found, err := e.values.Value("SInvalidationFile")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("before"), gv)

	_, found, err = e.values.Value("NewKey")
	require.NoError(t, err)
	assert.False(t, found)

	installed, err := e.store.IsInstalled("mymod")
	require.NoError(t, err)
	assert.False(t, installed, "mod state deleted")
}

func TestUninstall_SharedFileLeftInPlace(t *testing.T) {
	e := newUninstallEnv(t)
	require.NoError(t, e.fs.WriteFile("/game/shared.esp", []byte("s"), 0644))
	require.NoError(t, e.plugins.SetPluginActivation("shared.esp", true))

	for _, mod := range []string{"first", "second"} {
		l := ledger.New()
		l.AddFile("shared.esp")
		e.save(t, mod, l)
	}

	require.NoError(t, e.uninstallerFor(t, "first").Run(context.Background(), "first"))

	_, err := e.fs.Stat("/game/shared.esp")
	assert.NoError(t, err, "file still claimed by the other mod")

	active, err := e.plugins.IsPluginActive("shared.esp")
	require.NoError(t, err)
	assert.True(t, active, "still active while claimed")

	require.NoError(t, e.uninstallerFor(t, "second").Run(context.Background(), "second"))

	_, err = e.fs.Stat("/game/shared.esp")
	assert.Error(t, err, "last owner takes the file with it")
}

func TestUninstall_NotInstalled(t *testing.T) {
	e := newUninstallEnv(t)
	err := e.uninstallerFor(t, "ghost").Run(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModNotInstalled))
}

func TestUninstall_CancelledKeepsState(t *testing.T) {
	e := newUninstallEnv(t)
	require.NoError(t, e.fs.WriteFile("/game/a.txt", []byte("a"), 0644))

	l := ledger.New()
	l.AddFile("a.txt")
	e.save(t, "mymod", l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.uninstallerFor(t, "mymod").Run(ctx, "mymod")
	require.ErrorIs(t, err, context.Canceled)

	installed, err := e.store.IsInstalled("mymod")
	require.NoError(t, err)
	assert.True(t, installed, "a cancelled uninstall can be re-run")
}
