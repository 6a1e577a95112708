package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInitializesRepository(t *testing.T) {
	dir := t.TempDir()

	log, err := Open(dir)
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)
}

func TestCommitAndLatest(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.bin"), []byte("snapshot"), 0o644))
	require.NoError(t, log.Commit("INSERT INTO users"))

	latest := log.Latest()
	assert.NotEmpty(t, latest.ID)
	assert.Equal(t, "INSERT INTO users", latest.Message)
}

func TestLatestOnEmptyLog(t *testing.T) {
	log, err := Open(t.TempDir())
	require.NoError(t, err)

	assert.Zero(t, log.Latest())
}

func TestEntriesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.bin"), []byte("v1"), 0o644))
	require.NoError(t, log.Commit("first"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.bin"), []byte("v2"), 0o644))
	require.NoError(t, log.Commit("second"))

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "first", entries[1].Message)
}

func TestCommitAllowsNoChanges(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.bin"), []byte("v1"), 0o644))
	require.NoError(t, log.Commit("first"))
	require.NoError(t, log.Commit("no-op"))

	assert.Equal(t, "no-op", log.Latest().Message)
}

func TestOpenReusesExistingRepository(t *testing.T) {
	dir := t.TempDir()

	log, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.bin"), []byte("v1"), 0o644))
	require.NoError(t, log.Commit("first"))

	reopened, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "first", reopened.Latest().Message)
}
