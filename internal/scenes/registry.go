package scenes

import (
	"fmt"
	"image"
	"sort"

	"github.com/ivlev/scene2video/internal/fonts"
	"github.com/ivlev/scene2video/internal/scene"
)

// Env carries what scene builders may use besides compile-time constants.
type Env struct {
	Fonts      *fonts.Registry
	Thumbnails []image.Image
	EndCardURL string
}

func (e Env) thumbnail(i int) image.Image {
	if i < len(e.Thumbnails) {
		return e.Thumbnails[i]
	}
	return nil
}

// Builder constructs a scene.
type Builder func(env Env) (*scene.Scene, error)

var builders = map[string]Builder{
	"hello-triangle": HelloTriangle,
	"end-card":       EndCard,
}

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return b, nil
}

// Names lists registered scenes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build looks up and builds every named scene, then validates it.
func Build(env Env, names ...string) ([]*scene.Scene, error) {
	var out []*scene.Scene
	for _, name := range names {
		b, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		sc, err := b(env)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("validate %s: %w", name, err)
		}
		out = append(out, sc)
	}
	return out, nil
}
