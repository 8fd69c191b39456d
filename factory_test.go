package keydi_test

import (
	"testing"

	"github.com/ksotala/keydi"
	"github.com/ksotala/keydi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_Validation(t *testing.T) {
	tests := []struct {
		name    string
		key     keydi.Key
		deps    []keydi.Key
		fn      any
		wantErr error
	}{
		{
			name: "accepts zero-dependency function",
			key:  "cfg",
			fn:   func() *testutil.Config { return &testutil.Config{} },
		},
		{
			name: "accepts matching arity",
			key:  "db",
			deps: []keydi.Key{"cfg"},
			fn:   testutil.NewDatabase,
		},
		{
			name: "accepts error-returning constructor",
			key:  "db",
			deps: []keydi.Key{"cfg"},
			fn:   func(cfg *testutil.Config) (*testutil.Database, error) { return testutil.NewDatabase(cfg), nil },
		},
		{
			name: "accepts own key once",
			key:  "logger",
			deps: []keydi.Key{"logger"},
			fn:   func(prev testutil.Logger) testutil.Logger { return prev },
		},
		{
			name:    "rejects nil constructor",
			key:     "svc",
			fn:      nil,
			wantErr: keydi.ErrFactoryNil,
		},
		{
			name:    "rejects non-function constructor",
			key:     "svc",
			fn:      42,
			wantErr: keydi.ErrNotAFunction,
		},
		{
			name:    "rejects variadic constructor",
			key:     "svc",
			deps:    []keydi.Key{"a"},
			fn:      func(xs ...int) int { return 0 },
			wantErr: keydi.ErrVariadic,
		},
		{
			name:    "rejects missing return value",
			key:     "svc",
			fn:      func() {},
			wantErr: keydi.ErrBadConstructor,
		},
		{
			name:    "rejects non-error second return",
			key:     "svc",
			fn:      func() (int, int) { return 0, 0 },
			wantErr: keydi.ErrBadConstructor,
		},
		{
			name:    "rejects own key listed twice",
			key:     "svc",
			deps:    []keydi.Key{"svc", "svc"},
			fn:      func(a, b any) any { return nil },
			wantErr: keydi.ErrSelfDepTwice,
		},
		{
			name:    "rejects the reserved container key",
			key:     keydi.ContainerKey,
			fn:      func() int { return 0 },
			wantErr: keydi.ErrReservedKey,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := keydi.NewFactory(tt.key, tt.deps, tt.fn)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.key, f.Key())
			assert.Equal(t, len(tt.deps), len(f.Dependencies()))
		})
	}
}

func TestNewFactory_ArityMismatch(t *testing.T) {
	t.Parallel()

	t.Run("declared one dependency, zero parameters", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.NewFactory("S", []keydi.Key{"dep"}, func() int { return 0 })

		var arityErr keydi.ArityMismatchError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, "S", arityErr.Key)
		assert.Equal(t, 1, arityErr.Declared)
		assert.Equal(t, 0, arityErr.Actual)
		assert.Contains(t, err.Error(), `"S"`)
	})

	t.Run("declared zero dependencies, one parameter", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.NewFactory("S", nil, func(x int) int { return x })

		var arityErr keydi.ArityMismatchError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, 0, arityErr.Declared)
		assert.Equal(t, 1, arityErr.Actual)
	})
}

func TestNewFactory_DependenciesCopied(t *testing.T) {
	t.Parallel()

	deps := []keydi.Key{"a", "b"}
	f := keydi.MustFactory("svc", deps, func(a, b any) any { return nil })

	deps[0] = "mutated"
	assert.Equal(t, []keydi.Key{"a", "b"}, f.Dependencies())

	got := f.Dependencies()
	got[1] = "mutated"
	assert.Equal(t, []keydi.Key{"a", "b"}, f.Dependencies())
}

func TestMustFactory_PanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		keydi.MustFactory("svc", []keydi.Key{"dep"}, func() int { return 0 })
	})
}

func TestNewStruct(t *testing.T) {
	type handler struct {
		DB *testutil.Database
		L  testutil.Logger

		unexported int //nolint:unused // verifies unexported fields are skipped
	}

	t.Run("builds pointer instances from a pointer prototype", func(t *testing.T) {
		t.Parallel()

		f, err := keydi.NewStruct("handler", []keydi.Key{"db", "logger"}, &handler{})
		require.NoError(t, err)
		assert.Equal(t, "handler", f.Key())
		assert.Equal(t, []keydi.Key{"db", "logger"}, f.Dependencies())
	})

	t.Run("counts exported fields only", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.NewStruct("handler", []keydi.Key{"db"}, handler{})

		var arityErr keydi.ArityMismatchError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, 1, arityErr.Declared)
		assert.Equal(t, 2, arityErr.Actual)
		assert.Equal(t, "exported field", arityErr.Kind)
	})

	t.Run("rejects non-struct prototype", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.NewStruct("handler", nil, 42)
		assert.ErrorIs(t, err, keydi.ErrNotAStruct)
	})

	t.Run("rejects nil prototype", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.NewStruct("handler", nil, nil)
		assert.ErrorIs(t, err, keydi.ErrNotAStruct)
	})
}

func TestNewValue(t *testing.T) {
	t.Run("builds a zero-dependency factory", func(t *testing.T) {
		t.Parallel()

		f := keydi.NewValue("answer", 42)
		assert.Equal(t, "answer", f.Key())
		assert.Empty(t, f.Dependencies())
	})

	t.Run("panics on a nil key", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { keydi.NewValue(nil, 42) })
	})

	t.Run("panics on the reserved container key", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { keydi.NewValue(keydi.ContainerKey, 42) })
	})
}
