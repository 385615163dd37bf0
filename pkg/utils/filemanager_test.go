package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupPath(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	assert.Equal(t, "data/poi.geojson.bak.20240115143022", BackupPath("data/poi.geojson", BackupTimestamp, now))
	assert.Equal(t, "data/poi.geojson.bak", BackupPath("data/poi.geojson", "FIXED", now))
	assert.Equal(t, "", BackupPath("data/poi.geojson", BackupNone, now))
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poi.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection"}`), 0644))

	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)
	backup, err := BackupFile(path, BackupTimestamp, now)
	require.NoError(t, err)
	assert.Equal(t, path+".bak.20240115143022", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection"}`, string(data))

	// The original stays in place.
	assert.True(t, FileExists(path))
}

func TestBackupFile_FixedOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poi.geojson")
	require.NoError(t, os.WriteFile(path+".bak", []byte("old"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("new"), 0644))

	backup, err := BackupFile(path, BackupFixed, time.Now())
	require.NoError(t, err)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestBackupFile_NothingToDo(t *testing.T) {
	dir := t.TempDir()

	backup, err := BackupFile(filepath.Join(dir, "missing.geojson"), BackupTimestamp, time.Now())
	require.NoError(t, err)
	assert.Empty(t, backup)

	path := filepath.Join(dir, "poi.geojson")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	backup, err = BackupFile(path, BackupNone, time.Now())
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "poi_fixed.csv")
	require.NoError(t, EnsureParentDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("poi.csv"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "nope")))
}
