package initdata_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestWatcherFollowsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "init-data")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))

	var reloads atomic.Int32
	w, err := initdata.NewWatcher(path, slogx.Discard(),
		initdata.WithDebounce(10*time.Millisecond),
		initdata.WithOnChange(func(bool) { reloads.Add(1) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	requirePayload(t, "first", w)
	require.EqualValues(t, 1, reloads.Load())

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	require.Eventually(t, func() bool {
		v, ok := w.Retrieve(t.Context())
		return ok && v == "second"
	}, 2*time.Second, 10*time.Millisecond)

	// Replace by rename, the way editors and deploy tools do it.
	tmp := filepath.Join(dir, "init-data.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("third"), 0o600))
	require.NoError(t, os.Rename(tmp, path))
	require.Eventually(t, func() bool {
		v, ok := w.Retrieve(t.Context())
		return ok && v == "third"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, ok := w.Retrieve(t.Context())
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherMissingFileIsAbsent(t *testing.T) {
	t.Parallel()

	w, err := initdata.NewWatcher(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)

	requireAbsent(t, w)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
