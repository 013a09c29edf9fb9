// Package fonts resolves caption font family names to parsed OpenType fonts.
//
// The Go font family is always available. "Courier New" and the usual
// monospace names resolve to Go Mono, common sans-serif names resolve to Go
// Regular. Additional families can be registered or loaded from disk.
package fonts

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFamily is the family used when a lookup misses.
const DefaultFamily = "go mono"

// ErrEmptyFamily is returned when a family name is blank.
var ErrEmptyFamily = errors.New("font family must not be empty")

// Registry maps normalised family names to fonts. Parsed fonts are shared
// read-only; callers create their own faces.
type Registry struct {
	mu      sync.RWMutex
	fonts   map[string]*opentype.Font
	aliases map[string]string
}

// NewRegistry returns a registry preloaded with the Go fonts.
func NewRegistry() *Registry {
	r := &Registry{
		fonts:   make(map[string]*opentype.Font),
		aliases: make(map[string]string),
	}
	r.mustRegisterBuiltin("go mono", gomono.TTF, "courier new", "courier", "monospace", "consolas")
	r.mustRegisterBuiltin("go mono bold", gomonobold.TTF, "courier new bold")
	r.mustRegisterBuiltin("go regular", goregular.TTF, "go", "arial", "helvetica", "sans-serif", "sans")
	r.mustRegisterBuiltin("go bold", gobold.TTF, "arial bold")
	return r
}

func (r *Registry) mustRegisterBuiltin(name string, data []byte, aliases ...string) {
	f, err := opentype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("fonts: parse builtin %s: %v", name, err))
	}
	r.Register(name, f)
	for _, a := range aliases {
		r.Alias(a, name)
	}
}

// Register installs a font under the given family name.
func (r *Registry) Register(family string, f *opentype.Font) {
	key := normalize(family)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[key] = f
}

// Alias makes alias resolve to an already known family.
func (r *Registry) Alias(alias, family string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[normalize(alias)] = normalize(family)
}

// Lookup returns the font for family and the name it resolved to. Unknown
// families fall back to DefaultFamily.
func (r *Registry) Lookup(family string) (*opentype.Font, string, error) {
	key := normalize(family)
	if key == "" {
		return nil, "", ErrEmptyFamily
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fonts[key]; ok {
		return f, key, nil
	}
	if target, ok := r.aliases[key]; ok {
		if f, ok := r.fonts[target]; ok {
			return f, target, nil
		}
	}

	slog.Debug("font family not found, using default", "family", family, "default", DefaultFamily)
	f, ok := r.fonts[DefaultFamily]
	if !ok {
		return nil, "", fmt.Errorf("font family %q not found and no default registered", family)
	}
	return f, DefaultFamily, nil
}

// Families lists registered family names and aliases, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fonts)+len(r.aliases))
	for n := range r.fonts {
		names = append(names, n)
	}
	for a := range r.aliases {
		if _, shadowed := r.fonts[a]; !shadowed {
			names = append(names, a)
		}
	}
	sort.Strings(names)
	return names
}

// LoadFile parses a font or collection file and registers every face under
// its family name. It returns the registered names.
func (r *Registry) LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: font paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}

	var faces []*opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection %s: %w", path, err)
		}
		for i := 0; i < c.NumFonts(); i++ {
			f, err := c.Font(i)
			if err != nil {
				return nil, fmt.Errorf("font %d in %s: %w", i, path, err)
			}
			faces = append(faces, f)
		}
	default:
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		faces = append(faces, f)
	}

	names := make([]string, 0, len(faces))
	for _, f := range faces {
		name := familyName(f, path)
		r.Register(name, f)
		names = append(names, normalize(name))
	}
	return names, nil
}

// LoadDir loads every .ttf, .otf, .ttc and .otc file below dir.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	var loaded []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsFontFile(path) {
			return nil
		}
		names, err := r.LoadFile(path)
		if err != nil {
			slog.Warn("skipping font", "path", path, "error", err)
			return nil
		}
		loaded = append(loaded, names...)
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("load fonts from %s: %w", dir, err)
	}
	return loaded, nil
}

// IsFontFile reports whether path has a supported font extension.
func IsFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

func familyName(f *opentype.Font, path string) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Lookup resolves family in the default registry.
func Lookup(family string) (*opentype.Font, string, error) {
	return defaultRegistry.Lookup(family)
}
