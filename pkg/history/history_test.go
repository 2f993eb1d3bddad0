package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/wupd/pkg/winget"
)

func batchAt(started time.Time, outcomes ...winget.Outcome) Batch {
	return Batch{Started: started, Finished: started.Add(90 * time.Second), Outcomes: outcomes}
}

func TestRecordAndList(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "history"))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := batchAt(base,
		winget.Outcome{Kind: winget.Success, ID: "Google.Chrome", Detail: "updated successfully"},
		winget.Outcome{Kind: winget.NeedsClose, ID: "Spotify.Spotify", Detail: "needs to be closed before updating"},
	)
	second := batchAt(base.Add(time.Hour),
		winget.Outcome{Kind: winget.GenericFailure, ID: "Broken.App", Detail: "disk full"},
	)

	path, err := store.Record(first)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jsonl.xz"))
	assert.NotContains(t, filepath.Base(path), ":")

	_, err = store.Record(second)
	require.NoError(t, err)

	batches, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	// newest first
	assert.True(t, batches[0].Started.Equal(second.Started))
	assert.Equal(t, second.Outcomes, batches[0].Outcomes)
	assert.True(t, batches[1].Finished.Equal(first.Finished))
	assert.Equal(t, first.Outcomes, batches[1].Outcomes)
}

func TestListLimit(t *testing.T) {
	store := New(t.TempDir())
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Record(batchAt(base.Add(time.Duration(i)*time.Minute),
			winget.Outcome{Kind: winget.Success, ID: "A", Detail: "completed"}))
		require.NoError(t, err)
	}

	batches, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.True(t, batches[0].Started.Equal(base.Add(2*time.Minute)))
}

func TestListMissingDirectory(t *testing.T) {
	batches, err := New(filepath.Join(t.TempDir(), "absent")).List(0)
	assert.NoError(t, err)
	assert.Empty(t, batches)
}

func TestListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	batches, err := New(dir).List(0)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestListCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101T000000.000000000Z.jsonl.xz"), []byte("not xz"), 0644))

	_, err := New(dir).List(0)
	assert.Error(t, err)
}
