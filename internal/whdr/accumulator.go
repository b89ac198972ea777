package whdr

import "github.com/DjordjeVuckovic/iiw-bench/internal/judgment"

// Sums are the weighted totals behind a Result.
type Sums struct {
	ErrorTotal    float64 `json:"error_total"`
	ErrorEqual    float64 `json:"error_equal"`
	ErrorInequal  float64 `json:"error_inequal"`
	WeightTotal   float64 `json:"weight_total"`
	WeightEqual   float64 `json:"weight_equal"`
	WeightInequal float64 `json:"weight_inequal"`
}

// Accumulator folds scored comparisons into Sums. Each comparison lands in
// exactly one of the equal or inequal strata and always in the total.
type Accumulator struct {
	sums  Sums
	count int
}

func (a *Accumulator) Add(human, predicted judgment.Darker, weight float64) {
	wrong := human != predicted

	if human == judgment.Equal {
		if wrong {
			a.sums.ErrorEqual += weight
		}
		a.sums.WeightEqual += weight
	} else {
		if wrong {
			a.sums.ErrorInequal += weight
		}
		a.sums.WeightInequal += weight
	}

	if wrong {
		a.sums.ErrorTotal += weight
	}
	a.sums.WeightTotal += weight
	a.count++
}

func (a *Accumulator) Sums() Sums { return a.sums }

func (a *Accumulator) Result() Result {
	s := a.sums
	res := Result{
		Sums:         s,
		Comparisons:  a.count,
		Valid:        s.WeightTotal > 0,
		EqualValid:   s.WeightEqual > 0,
		InequalValid: s.WeightInequal > 0,
		Equal:        s.ErrorEqual / (s.WeightEqual + Epsilon),
		Inequal:      s.ErrorInequal / (s.WeightInequal + Epsilon),
	}
	if res.Valid {
		res.WHDR = s.ErrorTotal / s.WeightTotal
	}
	return res
}
