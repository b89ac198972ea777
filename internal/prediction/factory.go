package prediction

import (
	"fmt"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
)

type preset struct {
	reflectance string
	shading     string
}

// Filename layouts of the known baselines. The IIW decompositions release
// stores <photo_id>-r.png and <photo_id>-s.png per algorithm.
var presets = map[string]preset{
	"iiw":     {reflectance: "{id}-r.png", shading: "{id}-s.png"},
	"crefnet": {reflectance: "{id}_R.png", shading: "{id}_S.png"},
}

// NewFromSpec builds one loader per configured method.
func NewFromSpec(methods map[string]spec.Method, input *InputLoader) (map[string]Loader, error) {
	loaders := make(map[string]Loader, len(methods))
	for name, m := range methods {
		l, err := New(name, m, input)
		if err != nil {
			return nil, fmt.Errorf("create loader for %q: %w", name, err)
		}
		loaders[name] = l
	}
	return loaders, nil
}

func New(name string, m spec.Method, input *InputLoader) (Loader, error) {
	var opts []PatternOption
	if input != nil {
		opts = append(opts, WithInput(input))
	}
	if len(m.Spaces) > 0 {
		spaces := make([]reflectance.ColorSpace, 0, len(m.Spaces))
		for _, s := range m.Spaces {
			cs, err := reflectance.ParseColorSpace(s)
			if err != nil {
				return nil, err
			}
			spaces = append(spaces, cs)
		}
		opts = append(opts, WithSpaces(spaces...))
	}

	switch m.Type {
	case "iiw", "crefnet":
		p := presets[m.Type]
		r, s := p.reflectance, p.shading
		if m.Reflectance != "" {
			r = m.Reflectance
		}
		if m.Shading != "" {
			s = m.Shading
		}
		return NewPatternLoader(name, m.Dir, r, s, opts...)
	case "pattern":
		return NewPatternLoader(name, m.Dir, m.Reflectance, m.Shading, opts...)
	default:
		return nil, fmt.Errorf("unsupported method type %q for %q", m.Type, name)
	}
}
