package occupancy

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/common"
)

const (
	MinWindow = 1
	MaxWindow = 60
	MinSigma  = 1
	MaxSigma  = 20

	DefaultVariable = "Temperature"
	DefaultWindow   = 30
	DefaultSigma    = 10
)

// Point is a sample of the rolling average.
type Point struct {
	Date  time.Time `json:"x"`
	Value float64   `json:"y"`
}

// Outlier is a sample whose residual exceeds sigma rolling deviations.
// Value is the rolling average at that time, Raw the observed value.
type Outlier struct {
	Date  time.Time `json:"x"`
	Value float64   `json:"y"`
	Raw   float64   `json:"value"`
}

type Result struct {
	Variable string    `json:"variable"`
	Window   int       `json:"window"`
	Sigma    int       `json:"sigma"`
	Average  []Point   `json:"average"`
	Outliers []Outlier `json:"outliers"`
}

// ValidateParams checks the variable and the window and sigma ranges.
func (d *Dataset) ValidateParams(variable string, window, sigma int) error {
	if !d.HasVariable(variable) {
		return fmt.Errorf("%w: unknown variable %q", common.ErrValidation, variable)
	}
	if window < MinWindow || window > MaxWindow {
		return fmt.Errorf("%w: window must be between %d and %d", common.ErrValidation, MinWindow, MaxWindow)
	}
	if sigma < MinSigma || sigma > MaxSigma {
		return fmt.Errorf("%w: sigma must be between %d and %d", common.ErrValidation, MinSigma, MaxSigma)
	}
	return nil
}

// FindOutliers computes the rolling mean of variable over window samples,
// the residual against it and the rolling sample deviation of the residual.
// A point is an outlier when |residual| > deviation*sigma. Points where
// either rolling value is undefined are never outliers.
func (d *Dataset) FindOutliers(variable string, window, sigma int) (*Result, error) {
	if err := d.ValidateParams(variable, window, sigma); err != nil {
		return nil, err
	}

	values := d.series(variable)
	avg := rollingMean(values, window)

	residual := make([]float64, len(values))
	for i := range values {
		residual[i] = values[i] - avg[i]
	}
	std := rollingStd(residual, window)

	res := &Result{
		Variable: variable,
		Window:   window,
		Sigma:    sigma,
		Average:  make([]Point, 0, len(values)),
		Outliers: make([]Outlier, 0),
	}
	for i, r := range d.rows {
		if math.IsNaN(avg[i]) {
			continue
		}
		res.Average = append(res.Average, Point{Date: r.Date, Value: avg[i]})
		if !math.IsNaN(std[i]) && math.Abs(residual[i]) > std[i]*float64(sigma) {
			res.Outliers = append(res.Outliers, Outlier{Date: r.Date, Value: avg[i], Raw: values[i]})
		}
	}
	return res, nil
}

// rollingMean is NaN until window defined values are available.
func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = math.NaN()
		if i+1 < window {
			continue
		}
		sum := 0.0
		ok := true
		for _, x := range xs[i+1-window : i+1] {
			if math.IsNaN(x) {
				ok = false
				break
			}
			sum += x
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingStd is the sample (n-1) standard deviation over window values; it
// is NaN for windows containing NaN and for a window of one.
func rollingStd(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = math.NaN()
		if window < 2 || i+1 < window {
			continue
		}
		win := xs[i+1-window : i+1]
		mean := 0.0
		ok := true
		for _, x := range win {
			if math.IsNaN(x) {
				ok = false
				break
			}
			mean += x
		}
		if !ok {
			continue
		}
		mean /= float64(window)
		ss := 0.0
		for _, x := range win {
			ss += (x - mean) * (x - mean)
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}
