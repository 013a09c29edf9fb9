package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ManifestItem is one batch manifest entry.
type ManifestItem struct {
	Value     string  `yaml:"value"`
	Caption   *string `yaml:"caption,omitempty"`
	Name      string  `yaml:"name,omitempty"`
	Symbology string  `yaml:"symbology,omitempty"`
}

// Caption returns a pointer for ManifestItem.Caption.
func Caption(s string) *string { return &s }

// ManifestContent renders items in the manifest format selected by the
// extension of name: .csv, .yaml/.yml or plain text.
func ManifestContent(name string, items []ManifestItem) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"value", "caption", "name", "symbology"}); err != nil {
			return nil, err
		}
		for _, it := range items {
			caption := it.Value
			if it.Caption != nil {
				caption = *it.Caption
			}
			if err := w.Write([]string{it.Value, caption, it.Name, it.Symbology}); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	case ".yaml", ".yml":
		return yaml.Marshal(map[string][]ManifestItem{"items": items})
	default:
		var buf bytes.Buffer
		for _, it := range items {
			buf.WriteString(it.Value)
			if it.Caption != nil {
				buf.WriteString("\t" + *it.Caption)
			}
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	}
}

// WriteManifest writes items to dir/name and returns the path.
func WriteManifest(t *testing.T, dir, name string, items []ManifestItem) string {
	t.Helper()
	data, err := ManifestContent(name, items)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
