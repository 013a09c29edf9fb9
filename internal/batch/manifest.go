package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest is returned when a manifest holds no items.
var ErrEmptyManifest = errors.New("manifest contains no items")

// Item is one barcode to render.
type Item struct {
	// Value is the encoded payload.
	Value string `yaml:"value" json:"value"`
	// Caption overrides the caption; nil keeps the value, "" removes it.
	Caption *string `yaml:"caption,omitempty" json:"caption,omitempty"`
	// Name is the output file name without extension.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Symbology overrides the configured symbology.
	Symbology string `yaml:"symbology,omitempty" json:"symbology,omitempty"`
}

// LoadManifest reads a manifest, picking the parser from the file extension:
// .csv, .yaml/.yml, anything else is read as text.
func LoadManifest(path string) ([]Item, error) {
	f, err := os.Open(path) //nolint:gosec // G304: manifest path is user input by design
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var items []Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		items, err = ParseCSV(f)
	case ".yaml", ".yml":
		items, err = ParseYAML(f)
	default:
		items, err = ParseText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyManifest
	}
	return items, nil
}

// ParseText reads one value per line. A tab separates an optional caption;
// a trailing tab with nothing after it removes the caption. Blank lines and
// lines starting with # are skipped.
func ParseText(r io.Reader) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		value, caption, hasCaption := strings.Cut(line, "\t")
		item := Item{Value: value}
		if hasCaption {
			item.Caption = &caption
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseCSV reads rows with a header naming the columns value, caption, name
// and symbology. Only value is required.
func ParseCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["value"]; !ok {
		return nil, errors.New("csv header must contain a value column")
	}

	field := func(row []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	var items []Item
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		value, _ := field(row, "value")
		if value == "" {
			continue
		}
		item := Item{Value: value}
		if c, ok := field(row, "caption"); ok {
			item.Caption = &c
		}
		item.Name, _ = field(row, "name")
		item.Symbology, _ = field(row, "symbology")
		items = append(items, item)
	}
	return items, nil
}

// ParseYAML reads either a list of items or a mapping with an items key.
func ParseYAML(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	var items []Item
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&items)
	case yaml.MappingNode:
		var wrapped struct {
			Items []Item `yaml:"items"`
		}
		err = root.Decode(&wrapped)
		items = wrapped.Items
	default:
		return nil, errors.New("yaml manifest must be a list or contain an items list")
	}
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, it := range items {
		if it.Value != "" {
			out = append(out, it)
		}
	}
	return out, nil
}
