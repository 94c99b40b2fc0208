package director

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteCueSheet сохраняет cue sheet в YAML, создавая папку при необходимости
func WriteCueSheet(sheet *CueSheet, path string) error {
	data, err := yaml.Marshal(sheet)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadCueSheet загружает cue sheet из YAML
func ReadCueSheet(path string) (*CueSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sheet CueSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}

	return &sheet, nil
}
