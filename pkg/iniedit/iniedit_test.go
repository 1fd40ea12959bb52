// pkg/iniedit/iniedit_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Test case-insensitive INI reads, writes and deletions

package iniedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/iniedit"
)

func TestSetAndGetValue(t *testing.T) {
	fs := filesystem.NewMemory()
	e := iniedit.New(fs, "/game")

	// Reading from a missing file reports absence, not an error.
	_, found, err := e.Value("game.ini", "Display", "Width")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, e.SetValue("game.ini", "Display", "Width", "1920"))

	// Lookups fold case on file, section and key.
	v, found, err := e.Value("GAME.INI", "display", "WIDTH")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1920", v)

	require.NoError(t, e.SetValue("game.ini", "DISPLAY", "width", "2560"))

	v, found, err = e.Value("game.ini", "Display", "Width")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2560", v)
}

func TestSetValue_PreservesExistingKeys(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/game/game.ini",
		[]byte("[Display]\nWidth = 1024\nHeight = 768\n"), 0644))

	e := iniedit.New(fs, "/game")
	require.NoError(t, e.SetValue("game.ini", "Display", "Width", "1920"))

	v, found, err := e.Value("game.ini", "Display", "Height")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "768", v)
}

func TestDeleteValue(t *testing.T) {
	fs := filesystem.NewMemory()
	e := iniedit.New(fs, "/game")

	require.NoError(t, e.SetValue("game.ini", "Display", "Width", "1920"))
	require.NoError(t, e.DeleteValue("game.ini", "display", "width"))

	_, found, err := e.Value("game.ini", "Display", "Width")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting missing keys, sections or files is a no-op.
	require.NoError(t, e.DeleteValue("game.ini", "Display", "Width"))
	require.NoError(t, e.DeleteValue("game.ini", "Audio", "Volume"))
	require.NoError(t, e.DeleteValue("other.ini", "Display", "Width"))
}
