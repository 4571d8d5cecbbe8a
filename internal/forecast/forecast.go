// Package forecast provides stand-in predictors over OD tensors.
// None of this is a real model: the extrapolators repeat trivial
// statistics of the history and the replay path perturbs observed
// values with noise. Responses built from it are labeled accordingly.
package forecast

import "math/rand"

// MockModelLabel tags responses produced by the noise-injected replay
// so callers cannot mistake them for genuine forecasts.
const MockModelLabel = "noisy-replay-mock"

// Naive repeats the last observed [N][N] slice for every future step.
// Returns an empty tensor when there is no history or no horizon.
func Naive(tensor [][][]*float64, horizon int) [][][]*float64 {
	if len(tensor) == 0 || horizon <= 0 {
		return [][][]*float64{}
	}

	last := tensor[len(tensor)-1]
	pred := make([][][]*float64, horizon)
	for t := range pred {
		pred[t] = last
	}
	return pred
}

// MovingAverage averages the last min(window, T) slices elementwise
// (null cells count as 0) and repeats the average for every future
// step. A window below 1 is clamped to 1.
func MovingAverage(tensor [][][]*float64, horizon, window int) [][][]*float64 {
	if len(tensor) == 0 || horizon <= 0 {
		return [][][]*float64{}
	}

	w := window
	if w < 1 {
		w = 1
	}
	if w > len(tensor) {
		w = len(tensor)
	}

	n := len(tensor[0])
	avg := make([][]*float64, n)
	for i := range avg {
		avg[i] = make([]*float64, n)
		for j := range avg[i] {
			var acc float64
			for _, slice := range tensor[len(tensor)-w:] {
				if v := slice[i][j]; v != nil {
					acc += *v
				}
			}
			mean := acc / float64(w)
			avg[i][j] = &mean
		}
	}

	pred := make([][][]*float64, horizon)
	for t := range pred {
		pred[t] = avg
	}
	return pred
}

// NoisyReplay perturbs one observed flow value with noise proportional
// to its magnitude: value * ratio * uniform(-1, 1), clamped at zero.
func NoisyReplay(value, ratio float64, rng *rand.Rand) float64 {
	noise := value * ratio * (rng.Float64()*2 - 1)
	predicted := value + noise
	if predicted < 0 {
		return 0
	}
	return predicted
}
