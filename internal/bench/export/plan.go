package export

import "github.com/DjordjeVuckovic/iiw-bench/internal/prediction"

const (
	InputSubdir    = "Input"
	ShadingQuality = 100
)

type Method struct {
	Title  string
	Loader prediction.Loader
}

// Plan lists, per image, the input photo followed by every method's
// reflectance and then every method's shading.
func Plan(ids []string, methods []Method, input *prediction.InputLoader, inputQuality int) []Task {
	tasks := make([]Task, 0, len(ids)*(1+2*len(methods)))
	for _, id := range ids {
		tasks = append(tasks, Task{
			ImageID: id,
			Kind:    KindInput,
			Subdir:  InputSubdir,
			Src:     input.Path(id),
			Quality: inputQuality,
		})
		for _, m := range methods {
			r, _ := m.Loader.DisplayPaths(id)
			tasks = append(tasks, Task{ImageID: id, Kind: KindReflectance, Method: m.Title, Subdir: m.Title, Src: r})
		}
		for _, m := range methods {
			_, s := m.Loader.DisplayPaths(id)
			if s == "" {
				continue
			}
			tasks = append(tasks, Task{ImageID: id, Kind: KindShading, Method: m.Title, Subdir: m.Title, Src: s, Quality: ShadingQuality})
		}
	}
	return tasks
}
