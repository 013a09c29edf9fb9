package cmd

import (
	"bytes"
	"encoding/base64"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/barcodegen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := testutil.LoadImageFile(path)
	require.NoError(t, err)
	return img
}

func TestGenerateCommand_File(t *testing.T) {
	out := filepath.Join(t.TempDir(), "code.png")

	_, err := execute(t, "generate", "12345670", "--output", out)
	require.NoError(t, err)

	img := decodeFile(t, out)
	assert.Equal(t, image.Pt(200, 100), img.Bounds().Size())
}

func TestGenerateCommand_FormatFromExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "code.jpg")

	_, err := execute(t, "generate", "ABC", "-o", out, "--width", "320", "--height", "90", "--font", "Go")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "expected JPEG magic")

	img := decodeFile(t, out)
	assert.Equal(t, image.Pt(320, 90), img.Bounds().Size())
}

func TestGenerateCommand_Base64(t *testing.T) {
	output, err := execute(t, "generate", "HELLO", "--type", "qr", "--no-caption",
		"--width", "128", "--height", "128", "--base64")
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(output))
	require.NoError(t, err)
	img := testutil.DecodeImage(t, data)
	assert.Equal(t, image.Pt(128, 128), img.Bounds().Size())
}

func TestGenerateCommand_Stdout(t *testing.T) {
	output, err := execute(t, "generate", "1", "-o", "-", "--format", "gif")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "GIF8"))
}

func TestGenerateCommand_PDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "code.pdf")

	_, err := execute(t, "generate", "12345670", "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no destination", []string{"generate", "1"}, "--output or --base64"},
		{"missing value", []string{"generate", "--base64"}, "accepts 1 arg"},
		{"empty value", []string{"generate", "", "--base64"}, "invalid argument"},
		{"unknown type", []string{"generate", "1", "--type", "maxicode", "--base64"}, "maxicode"},
		{"unknown format", []string{"generate", "1", "--format", "webp", "--base64"}, "webp"},
		{"bad size", []string{"generate", "1", "--width", "0", "--base64"}, "invalid argument"},
		{"unencodable", []string{"generate", "abc", "--type", "ean", "-o", filepath.Join(dir, "x.png")}, "symbology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	// Failed renders leave no files behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateCommand_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "barcodegen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  width: 240\n  height: 60\n  format: bmp\n"), 0o600))

	out := filepath.Join(dir, "code")
	_, err := execute(t, "--config", cfgPath, "generate", "42", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("BM")))
	assert.Equal(t, image.Pt(240, 60), decodeFile(t, out).Bounds().Size())
}
