package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const histogramBins = 20

// WriteHistograms renders the per-image WHDR distribution of every
// job/method pair as a PNG under dir and returns the written paths.
// Methods without a defined image are skipped.
func WriteHistograms(r *Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	var written []string
	for _, jr := range r.Jobs {
		scores := scoresByMethod(jr.PerImage)
		for _, agg := range jr.Aggregated {
			values := scores[agg.MethodName]
			if len(values) == 0 {
				continue
			}

			p := plot.New()
			p.Title.Text = fmt.Sprintf("%s / %s - WHDR per image", jr.JobName, agg.MethodName)
			p.X.Label.Text = "WHDR"
			p.Y.Label.Text = "Images"
			p.X.Min = 0
			p.X.Max = 1

			h, err := plotter.NewHist(values, histogramBins)
			if err != nil {
				return written, fmt.Errorf("histogram %s/%s: %w", jr.JobName, agg.MethodName, err)
			}
			p.Add(h)

			file := filepath.Join(dir, fmt.Sprintf("%s_%s_whdr.png", fileSafe(jr.JobName), fileSafe(agg.MethodName)))
			if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
				return written, fmt.Errorf("save %s: %w", file, err)
			}
			written = append(written, file)
		}
	}
	return written, nil
}

func scoresByMethod(entries []Entry) map[string]plotter.Values {
	out := make(map[string]plotter.Values)
	for _, e := range entries {
		if e.WHDR != nil {
			out[e.MethodName] = append(out[e.MethodName], *e.WHDR)
		}
	}
	return out
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
