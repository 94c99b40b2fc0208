package engine

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
)

// ErrNoScene - сцена для снимка не выбрана в конфигурации.
var ErrNoScene = errors.New("scene not found")

// Snapshot сохраняет кадр сцены sceneName в момент t в PNG. Пустое имя -
// первая сцена, t ограничивается длительностью сцены.
func (p *VideoProject) Snapshot(ctx context.Context, sceneName string, t float64, path string) error {
	if err := p.prepare(ctx); err != nil {
		return err
	}

	var sc *scene.Scene
	for _, s := range p.Scenes {
		if sceneName == "" || s.Name == sceneName {
			sc = s
			break
		}
	}
	if sc == nil {
		return fmt.Errorf("%q: %w", sceneName, ErrNoScene)
	}

	t = min(max(t, 0), sc.Duration())
	r := renderer.New(p.Config.Width, p.Config.Height, p.background)
	img, err := r.RenderFrame(effects.Evaluate(sc, t))
	defer r.Release(img)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("[+++] Кадр %s @ %.2fs сохранен: %s\n", sc.Name, t, path)
	return nil
}
