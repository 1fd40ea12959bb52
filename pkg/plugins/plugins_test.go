// pkg/plugins/plugins_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Test plugin activation list toggles

package plugins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/plugins"
)

func TestSetPluginActivation(t *testing.T) {
	fs := filesystem.NewMemory()
	a := plugins.New(fs, "/game/plugins.txt")

	// Missing file means nothing is active.
	active, err := a.IsPluginActive("plugin.esp")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, a.SetPluginActivation("Plugin.ESP", true))
	require.NoError(t, a.SetPluginActivation("other.esm", true))

	active, err = a.IsPluginActive("plugin.esp")
	require.NoError(t, err)
	assert.True(t, active, "activation folds case")

	// Re-activating keeps a single entry and the original order.
	require.NoError(t, a.SetPluginActivation("PLUGIN.esp", true))

	list, err := a.ActivePlugins()
	require.NoError(t, err)
	assert.Equal(t, []string{"plugin.esp", "other.esm"}, list)

	require.NoError(t, a.SetPluginActivation("plugin.esp", false))

	list, err = a.ActivePlugins()
	require.NoError(t, err)
	assert.Equal(t, []string{"other.esm"}, list)

	// Deactivating an inactive plugin is a no-op.
	require.NoError(t, a.SetPluginActivation("plugin.esp", false))
}

func TestSetPluginActivation_EmptyPath(t *testing.T) {
	a := plugins.New(filesystem.NewMemory(), "/game/plugins.txt")
	assert.Error(t, a.SetPluginActivation("", true))
}

func TestLoad_SkipsCommentsAndBlanks(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/game/plugins.txt",
		[]byte("# load order\n\nBase.esm\n  plugin.esp  \n"), 0644))

	a := plugins.New(fs, "/game/plugins.txt")
	list, err := a.ActivePlugins()
	require.NoError(t, err)
	assert.Equal(t, []string{"base.esm", "plugin.esp"}, list)
}
