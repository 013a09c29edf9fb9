package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Width, cfg.Height = 120, 60
	cfg.Workers = 2
	return cfg
}

type recordingProgress struct {
	started, completed bool
	last               int
	errors             []int
}

func (r *recordingProgress) OnStart(int)              { r.started = true }
func (r *recordingProgress) OnProgress(current, _ int) { r.last = current }
func (r *recordingProgress) OnComplete()              { r.completed = true }
func (r *recordingProgress) OnError(i int, _ error)   { r.errors = append(r.errors, i) }

func TestRun_WritesFiles(t *testing.T) {
	cfg := testConfig(t)
	items := []Item{
		{Value: "12345670"},
		{Value: "ABC", Caption: ptr("")},
		{Value: "https://example.com", Symbology: "qr", Name: "link"},
	}

	progress := &recordingProgress{}
	res, err := Run(context.Background(), items, cfg, progress)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Succeeded())
	assert.Zero(t, res.Failed())
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 2, res.WorkerCount)
	assert.True(t, progress.started)
	assert.True(t, progress.completed)
	assert.Equal(t, 3, progress.last)

	for i, it := range res.Items {
		assert.Equal(t, i, it.Index)
		assert.NotEmpty(t, it.ID)
		info, err := os.Stat(it.File)
		require.NoError(t, err)
		assert.Equal(t, int64(it.Bytes), info.Size())
	}
	assert.Equal(t, filepath.Join(cfg.OutputDir, "link.png"), res.Items[2].File)
	assert.Equal(t, "qr", res.Items[2].Symbology)
}

func TestRun_StopsOnFirstError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 1
	items := []Item{
		{Value: "A"},
		{Value: "not-digits", Symbology: "ean"},
		{Value: "C"},
	}

	res, err := Run(context.Background(), items, cfg, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Contains(t, err.Error(), "item 2")
	assert.Equal(t, 1, res.Failed())
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "not-digits.png"))
}

func TestRun_ContinueOnError(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContinueOnError = true
	items := []Item{
		{Value: "A"},
		{Value: "bad", Symbology: "maxicode"},
		{Value: "C"},
	}

	progress := &recordingProgress{}
	res, err := Run(context.Background(), items, cfg, progress)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded())
	assert.Equal(t, 1, res.Failed())
	assert.Equal(t, []int{1}, progress.errors)
	assert.Error(t, res.Items[1].Err)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]Item, 20)
	for i := range items {
		items[i] = Item{Value: "X"}
	}

	res, err := Run(ctx, items, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Len(t, res.Items, 20)
}

func TestRun_Empty(t *testing.T) {
	_, err := Run(context.Background(), nil, testConfig(t), nil)
	assert.ErrorIs(t, err, ErrEmptyManifest)
}

func TestRun_OtherFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Format = codec.JPEG

	res, err := Run(context.Background(), []Item{{Value: "A"}}, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(res.Items[0].File))
}

func TestProcessManifest(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\nB\n"), 0o600))

	res, err := ProcessManifest(context.Background(), path, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded())

	_, err = ProcessManifest(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), cfg, nil)
	assert.Error(t, err)
}

func TestOutputNames(t *testing.T) {
	items := []Item{
		{Value: "a/b"},
		{Value: "a/b"},
		{Value: "x", Name: "A_B"},
		{Value: "..."},
		{Value: "caf\u00e9"},
	}
	names := outputNames(items, ".png")
	assert.Equal(t, []string{"a_b.png", "a_b_2.png", "A_B_3.png", "barcode.png", "caf_.png"}, names)
}

func TestSanitizeName_Truncates(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, sanitizeName(string(long)), maxNameLength)
}
