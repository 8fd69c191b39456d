package reflection_test

import (
	"errors"
	"testing"

	"github.com/ksotala/keydi/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFunc(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		wantIn  int
		wantErr error
		hasErr  bool
	}{
		{name: "nil", fn: nil, wantErr: reflection.ErrNilConstructor},
		{name: "not a function", fn: "nope", wantErr: reflection.ErrNotFunc},
		{name: "variadic", fn: func(xs ...int) int { return 0 }, wantErr: reflection.ErrVariadic},
		{name: "no returns", fn: func() {}, wantErr: reflection.ErrNoReturn},
		{name: "three returns", fn: func() (int, int, int) { return 0, 0, 0 }, wantErr: reflection.ErrTooManyReturns},
		{name: "second return not error", fn: func() (int, int) { return 0, 0 }, wantErr: reflection.ErrSecondNotError},
		{name: "zero params", fn: func() int { return 0 }, wantIn: 0},
		{name: "two params", fn: func(a string, b int) bool { return false }, wantIn: 2},
		{name: "with error return", fn: func() (int, error) { return 0, nil }, wantIn: 0, hasErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := reflection.AnalyzeFunc(tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, info)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIn, info.NumIn)
			assert.Equal(t, tt.hasErr, info.ReturnsError)
		})
	}
}

func TestFuncInfo_Call(t *testing.T) {
	t.Run("passes arguments positionally", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeFunc(func(a string, b int) string {
			return a
		})
		require.NoError(t, err)

		got, err := info.Call([]any{"hello", 2})
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})

	t.Run("zero-fills nil arguments", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeFunc(func(s *struct{ X int }) bool {
			return s == nil
		})
		require.NoError(t, err)

		got, err := info.Call([]any{nil})
		require.NoError(t, err)
		assert.Equal(t, true, got)
	})

	t.Run("rejects unassignable arguments", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeFunc(func(n int) int { return n })
		require.NoError(t, err)

		_, err = info.Call([]any{"not an int"})
		assert.ErrorContains(t, err, "not assignable")
	})

	t.Run("propagates constructor errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		info, err := reflection.AnalyzeFunc(func() (int, error) { return 0, boom })
		require.NoError(t, err)

		_, err = info.Call(nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAnalyzeStruct(t *testing.T) {
	type svc struct {
		Name  string
		Port  int
		inner bool //nolint:unused // exercises the exported-only filter
	}

	t.Run("records exported fields in order", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeStruct(svc{})
		require.NoError(t, err)
		assert.False(t, info.Pointer)
		assert.Len(t, info.Fields, 2)
	})

	t.Run("pointer prototypes build pointer instances", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeStruct(&svc{})
		require.NoError(t, err)
		require.True(t, info.Pointer)

		got, err := info.New([]any{"api", 8080})
		require.NoError(t, err)

		built, ok := got.(*svc)
		require.True(t, ok)
		assert.Equal(t, "api", built.Name)
		assert.Equal(t, 8080, built.Port)
	})

	t.Run("value prototypes build values", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeStruct(svc{})
		require.NoError(t, err)

		got, err := info.New([]any{"api", 8080})
		require.NoError(t, err)

		built, ok := got.(svc)
		require.True(t, ok)
		assert.Equal(t, "api", built.Name)
	})

	t.Run("rejects non-structs", func(t *testing.T) {
		t.Parallel()

		_, err := reflection.AnalyzeStruct(42)
		assert.ErrorIs(t, err, reflection.ErrNotStruct)

		_, err = reflection.AnalyzeStruct(nil)
		assert.ErrorIs(t, err, reflection.ErrNotStruct)
	})

	t.Run("rejects unassignable field values", func(t *testing.T) {
		t.Parallel()

		info, err := reflection.AnalyzeStruct(&svc{})
		require.NoError(t, err)

		_, err = info.New([]any{8080, "api"})
		assert.ErrorContains(t, err, "not assignable")
	})
}
