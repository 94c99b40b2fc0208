package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateCueSheetPath создает имя файла cue sheet с меткой времени
func GenerateCueSheetPath(dir, sceneName string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("cues_%s_%s.yaml", sceneName, timestamp))
}

// FindLatestCueSheet находит самый свежий cue sheet в папке
func FindLatestCueSheet(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read cue sheet directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var sheets []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sheets = append(sheets, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(sheets) == 0 {
		return "", fmt.Errorf("no cue sheets found in %s", dir)
	}

	// сначала новые
	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].mod.After(sheets[j].mod)
	})

	return sheets[0].path, nil
}
