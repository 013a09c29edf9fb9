package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		family   string
		resolved string
	}{
		{"Courier New", "go mono"},
		{"courier   new", "go mono"},
		{"MONOSPACE", "go mono"},
		{"Arial", "go regular"},
		{"go bold", "go bold"},
		{"Comic Sans MS", DefaultFamily},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			f, name, err := r.Lookup(tt.family)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.resolved, name)
		})
	}
}

func TestRegistry_LookupEmpty(t *testing.T) {
	_, _, err := NewRegistry().Lookup("   ")
	assert.ErrorIs(t, err, ErrEmptyFamily)
}

func TestRegistry_Families(t *testing.T) {
	names := NewRegistry().Families()
	assert.Contains(t, names, "courier new")
	assert.Contains(t, names, "go mono")
	assert.IsIncreasing(t, names)
}

func TestRegistry_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o600))

	r := NewRegistry()
	names, err := r.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "go", names[0])

	_, resolved, err := r.Lookup("Go")
	require.NoError(t, err)
	assert.Equal(t, "go", resolved)
}

func TestRegistry_LoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.otf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o600))

	_, err := NewRegistry().LoadFile(path)
	assert.Error(t, err)
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.ttf"), goregular.TTF, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte("junk"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o600))

	names, err := NewRegistry().LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, names)
}

func TestRegistry_LoadDirMissing(t *testing.T) {
	_, err := NewRegistry().LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsFontFile(t *testing.T) {
	assert.True(t, IsFontFile("x.TTF"))
	assert.True(t, IsFontFile("x.otc"))
	assert.False(t, IsFontFile("x.woff"))
}
