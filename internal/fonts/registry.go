package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/sysfont"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ivlev/scene2video/internal/scene"
)

// FallbackFamily is the embedded family used when nothing else matches.
const FallbackFamily = "Go"

// Registry resolves font families for text objects. Families registered
// through Use are only visible while the use block runs.
type Registry struct {
	dir      string
	fallback bool

	mu       sync.RWMutex
	families map[string]*Typeface
	system   map[string]*Typeface
	embedded *Typeface
}

// NewRegistry creates a registry that loads font files relative to dir. With
// fallback set, unresolved families use system fonts or the embedded Go font
// instead of failing.
func NewRegistry(dir string, fallback bool) *Registry {
	return &Registry{
		dir:      dir,
		fallback: fallback,
		families: make(map[string]*Typeface),
		system:   make(map[string]*Typeface),
	}
}

// Use registers the font file at path for the duration of fn.
func (r *Registry) Use(path string, fn func() error) error {
	full := path
	if !filepath.IsAbs(full) && r.dir != "" {
		full = filepath.Join(r.dir, path)
	}

	tf, err := LoadFile(full)
	if err != nil {
		if !r.fallback {
			return err
		}
		log.Warnf("[!] Шрифт %s недоступен, используется замена: %v", full, err)
		return fn()
	}

	keys := []string{normalize(tf.Name()), normalize(strings.TrimSuffix(filepath.Base(full), filepath.Ext(full)))}
	r.mu.Lock()
	for _, k := range keys {
		r.families[k] = tf
	}
	r.mu.Unlock()
	log.Debugf("font registered: %s (%s)", tf.Name(), full)

	defer func() {
		r.mu.Lock()
		for _, k := range keys {
			if r.families[k] == tf {
				delete(r.families, k)
			}
		}
		r.mu.Unlock()
	}()
	return fn()
}

// Lookup resolves a family name.
func (r *Registry) Lookup(family string) (scene.Typeface, error) {
	key := normalize(family)

	r.mu.RLock()
	tf, ok := r.families[key]
	if !ok {
		tf, ok = r.system[key]
	}
	r.mu.RUnlock()
	if ok {
		return tf, nil
	}

	if !r.fallback {
		return nil, fmt.Errorf("%q: %w", family, ErrFontNotFound)
	}

	if tf, err := findSystem(family); err == nil {
		r.mu.Lock()
		r.system[key] = tf
		r.mu.Unlock()
		return tf, nil
	}

	log.Warnf("[!] Семейство %q не найдено, используется %s", family, FallbackFamily)
	emb, err := r.Embedded()
	if err != nil {
		return nil, err
	}
	// later lookups of the same family skip the system font scan
	r.mu.Lock()
	r.system[key] = emb
	r.mu.Unlock()
	return emb, nil
}

// Embedded returns the embedded Go Regular typeface.
func (r *Registry) Embedded() (*Typeface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.embedded == nil {
		tf, err := Parse(FallbackFamily, goregular.TTF)
		if err != nil {
			return nil, err
		}
		r.embedded = tf
	}
	return r.embedded, nil
}

// LoadFile parses a TTF/OTF file.
func LoadFile(path string) (*Typeface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrFontNotFound)
		}
		return nil, err
	}
	return Parse("", data)
}

func findSystem(family string) (*Typeface, error) {
	finder := sysfont.NewFinder(nil)
	f := finder.Match(family)
	if f == nil || !strings.EqualFold(f.Family, family) {
		return nil, fmt.Errorf("system %q: %w", family, ErrFontNotFound)
	}
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if ext != ".ttf" && ext != ".otf" {
		return nil, fmt.Errorf("system %q: unsupported format %s: %w", family, ext, ErrFontNotFound)
	}
	return LoadFile(f.Filename)
}

func normalize(family string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(family), " ", ""))
}
