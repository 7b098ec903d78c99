package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cursorState struct {
	LastUpdateID int
	Channel      string
}

func TestGobRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.gob")

	require.NoError(t, SaveGob(path, cursorState{LastUpdateID: 991, Channel: "@c"}))

	var loaded cursorState
	require.NoError(t, LoadGob(path, &loaded))
	assert.Equal(t, 991, loaded.LastUpdateID)
	assert.Equal(t, "@c", loaded.Channel)
}

func TestLoadGob_Missing(t *testing.T) {
	var loaded cursorState
	err := LoadGob(filepath.Join(t.TempDir(), "absent.gob"), &loaded)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadGob_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0600))

	var loaded cursorState
	err := LoadGob(path, &loaded)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func TestSaveJSON_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := map[string]string{"last_update": "1403/01/02 - 10:00 <&>"}

	require.NoError(t, SaveJSON(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"last_update\": \"1403/01/02 - 10:00 <&>\"\n}", string(data))
}

func TestSaveJSON_KeepsUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, SaveJSON(path, []string{"ساختمان داده"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ساختمان داده")

	var loaded []string
	require.NoError(t, LoadJSON(path, &loaded))
	assert.Equal(t, []string{"ساختمان داده"}, loaded)
}

func TestLoadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	var target []int
	assert.ErrorIs(t, LoadJSON(filepath.Join(dir, "missing.json"), &target), os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[1, 2"), 0600))
	err := LoadJSON(bad, &target)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
