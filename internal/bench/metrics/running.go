package metrics

import "github.com/DjordjeVuckovic/iiw-bench/internal/whdr"

// RunningAverage is a weighted mean that can be updated one sample at a
// time. A zero-weight update changes nothing.
type RunningAverage struct {
	Sum    float64 `json:"sum"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

func (r *RunningAverage) Update(value, weight float64) {
	if weight <= 0 {
		return
	}
	r.Sum += value * weight
	r.Weight += weight
	r.Count++
}

// Mean returns false while nothing has been accumulated.
func (r RunningAverage) Mean() (float64, bool) {
	if r.Weight <= 0 {
		return 0, false
	}
	return r.Sum / r.Weight, true
}

// WHDRAverages tracks the overall and per-stratum means across images.
type WHDRAverages struct {
	Overall RunningAverage `json:"overall"`
	Equal   RunningAverage `json:"equal"`
	Inequal RunningAverage `json:"inequal"`
}

// Add folds one image in with unit weight. An undefined image leaves every
// average untouched; an empty stratum contributes a zero-weight update so
// its denominator is unaffected.
func (a *WHDRAverages) Add(res whdr.Result) {
	if !res.Valid {
		return
	}
	a.Overall.Update(res.WHDR, 1)
	a.Equal.Update(res.Equal, stratumWeight(res.EqualValid))
	a.Inequal.Update(res.Inequal, stratumWeight(res.InequalValid))
}

func stratumWeight(valid bool) float64 {
	if valid {
		return 1
	}
	return 0
}
