package initdata_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/stretchr/testify/require"
)

func requireAbsent(t *testing.T, r initdata.Retriever) {
	t.Helper()
	v, ok := r.Retrieve(t.Context())
	require.False(t, ok)
	require.Empty(t, v)
}

func requirePayload(t *testing.T, want string, r initdata.Retriever) {
	t.Helper()
	v, ok := r.Retrieve(t.Context())
	require.True(t, ok)
	require.Equal(t, want, v)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	requirePayload(t, "query_id=1", initdata.Static(" query_id=1\n"))
	requireAbsent(t, initdata.Static(""))
	requireAbsent(t, initdata.Static("   "))
	requireAbsent(t, initdata.None)
}

func TestEnvReadsOnEveryCall(t *testing.T) {
	r := initdata.Env("CAMPUS_TEST_INIT_DATA")

	t.Setenv("CAMPUS_TEST_INIT_DATA", "")
	requireAbsent(t, r)

	t.Setenv("CAMPUS_TEST_INIT_DATA", "first")
	requirePayload(t, "first", r)

	t.Setenv("CAMPUS_TEST_INIT_DATA", "second")
	requirePayload(t, "second", r)
}

func TestFileReadsOnEveryCall(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "init-data")
	r := initdata.File(path)

	requireAbsent(t, r)

	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o600))
	requirePayload(t, "one", r)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o600))
	requirePayload(t, "two", r)

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	requireAbsent(t, r)
}

func TestFuncNeverFails(t *testing.T) {
	t.Parallel()

	t.Run("value", func(t *testing.T) {
		requirePayload(t, "abc", initdata.Func(func() (string, error) { return "abc", nil }))
	})

	t.Run("error is absent", func(t *testing.T) {
		requireAbsent(t, initdata.Func(func() (string, error) { return "abc", errors.New("host bridge gone") }))
	})

	t.Run("panic is absent", func(t *testing.T) {
		requireAbsent(t, initdata.Func(func() (string, error) { panic("not inside the messenger") }))
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := initdata.RetrieverFunc(func(context.Context) (string, bool) {
		calls++
		return "", false
	})

	r := initdata.Chain(nil, counting, initdata.Static("fallback"), initdata.Static("unused"))
	requirePayload(t, "fallback", r)
	require.Equal(t, 1, calls)

	requireAbsent(t, initdata.Chain())
}
