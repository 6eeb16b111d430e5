package syncer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyState_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-state.conf")

	state := LoadPolicyState(path)
	state.MarkEnabled("Std-Apps.txt")
	state.MarkDisabled("Old.txt")
	require.NoError(t, state.Save())

	reloaded := LoadPolicyState(path)
	assert.True(t, reloaded.ListEnabled("Std-Apps.txt"))
	assert.False(t, reloaded.ListEnabled("Old.txt"))
	assert.True(t, reloaded.ListEnabled("never-seen.txt"), "absent entries default to enabled")
}

func TestPolicyState_MissingFileIsEmpty(t *testing.T) {
	state := LoadPolicyState(filepath.Join(t.TempDir(), "nope.conf"))
	assert.True(t, state.ListEnabled("anything"))
	assert.False(t, state.OriginalsRecorded())
}

func TestPolicyState_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-state.conf")
	content := "# comment\n\nStd-Apps.txt=1\ngarbage line without separator\nOld.txt=0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	state := LoadPolicyState(path)
	assert.True(t, state.ListEnabled("Std-Apps.txt"))
	assert.False(t, state.ListEnabled("Old.txt"))
}

func TestPolicyState_OriginalsRecordedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-state.conf")

	state := LoadPolicyState(path)
	state.RecordOriginals([]string{"Apps.txt", "Tools.txt"})
	assert.True(t, state.OriginalsRecorded())
	assert.Equal(t, []string{"Apps.txt", "Tools.txt"}, state.Originals())

	// Second snapshot is a no-op.
	state.RecordOriginals([]string{"Other.txt"})
	assert.Equal(t, []string{"Apps.txt", "Tools.txt"}, state.Originals())

	state.RetireOriginal("Apps.txt")
	assert.Equal(t, []string{"Tools.txt"}, state.Originals())

	require.NoError(t, state.Save())
	reloaded := LoadPolicyState(path)
	assert.True(t, reloaded.OriginalsRecorded())
	assert.Equal(t, []string{"Tools.txt"}, reloaded.Originals())
}

// Internal bookkeeping keys must never read as user list names.
func TestPolicyState_InternalKeysInvisibleToLists(t *testing.T) {
	state := LoadPolicyState(filepath.Join(t.TempDir(), "sync-state.conf"))
	state.RecordOriginals([]string{"Apps.txt"})
	assert.True(t, state.ListEnabled("Apps.txt"))
}
