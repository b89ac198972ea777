package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Manifest struct {
	RelDir  string        `yaml:"rel_dir"`
	Methods []string      `yaml:"methods"`
	Images  []ManifestRow `yaml:"images"`
}

type ManifestRow struct {
	ImageID     string            `yaml:"image_id"`
	HWRatio     float64           `yaml:"hw_ratio"`
	Input       string            `yaml:"input"`
	Reflectance map[string]string `yaml:"reflectance"`
	Shading     map[string]string `yaml:"shading,omitempty"`
}

// BuildManifest groups copied files back into one row per image, in task
// order. copied must line up with tasks.
func BuildManifest(relDir string, methods []Method, tasks []Task, copied []Copied) (*Manifest, error) {
	if len(tasks) != len(copied) {
		return nil, fmt.Errorf("manifest: %d tasks but %d copied files", len(tasks), len(copied))
	}

	m := &Manifest{RelDir: relDir}
	for _, meth := range methods {
		m.Methods = append(m.Methods, meth.Title)
	}

	rows := make(map[string]*ManifestRow)
	var order []string
	for i, t := range tasks {
		row, ok := rows[t.ImageID]
		if !ok {
			row = &ManifestRow{ImageID: t.ImageID, Reflectance: make(map[string]string)}
			rows[t.ImageID] = row
			order = append(order, t.ImageID)
		}
		switch t.Kind {
		case KindInput:
			row.Input = copied[i].RelPath
			row.HWRatio = copied[i].HWRatio
		case KindReflectance:
			row.Reflectance[t.Method] = copied[i].RelPath
		case KindShading:
			if row.Shading == nil {
				row.Shading = make(map[string]string)
			}
			row.Shading[t.Method] = copied[i].RelPath
		}
	}

	for _, id := range order {
		m.Images = append(m.Images, *rows[id])
	}
	return m, nil
}

func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
