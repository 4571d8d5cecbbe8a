package stats

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/odlab/odflow-backend/internal/models"
)

// Metrics holds elementwise comparison results. MAPE is nil when no
// pair with a non-zero true value exists.
type Metrics struct {
	RMSE float64
	MAE  float64
	MAPE *float64
}

// Flatten walks an arbitrarily nested JSON payload (slices of slices
// of numbers) and returns the scalars in order. nil elements are kept
// as nil; non-numeric leaves are an error.
func Flatten(v interface{}) ([]*float64, error) {
	var out []*float64
	if err := flattenInto(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(v interface{}, out *[]*float64) error {
	switch x := v.(type) {
	case nil:
		*out = append(*out, nil)
	case []interface{}:
		for _, e := range x {
			if err := flattenInto(e, out); err != nil {
				return err
			}
		}
	case float64:
		f := x
		*out = append(*out, &f)
	case int:
		f := float64(x)
		*out = append(*out, &f)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("non-numeric value %q in payload", x.String())
		}
		*out = append(*out, &f)
	default:
		return fmt.Errorf("non-numeric value of type %T in payload", v)
	}
	return nil
}

// Compare flattens both payloads and computes RMSE, MAE and MAPE.
// Pairs with a nil or NaN member on either side are skipped entirely;
// MAPE accumulates only over pairs whose true value is non-zero.
func Compare(yTrue, yPred interface{}) (*Metrics, error) {
	tv, err := Flatten(yTrue)
	if err != nil {
		return nil, err
	}
	pv, err := Flatten(yPred)
	if err != nil {
		return nil, err
	}

	if len(tv) != len(pv) {
		return nil, models.ErrLengthMismatch
	}

	var se, ae, apeSum float64
	var n, nMAPE int

	for i := range tv {
		if tv[i] == nil || pv[i] == nil {
			continue
		}
		yt, yp := *tv[i], *pv[i]
		if math.IsNaN(yt) || math.IsNaN(yp) {
			continue
		}

		diff := yp - yt
		se += diff * diff
		ae += math.Abs(diff)
		n++

		if yt != 0.0 {
			apeSum += math.Abs(diff / yt)
			nMAPE++
		}
	}

	if n == 0 {
		return nil, models.ErrNoValidPairs
	}

	m := &Metrics{
		RMSE: math.Sqrt(se / float64(n)),
		MAE:  ae / float64(n),
	}
	if nMAPE > 0 {
		mape := apeSum / float64(nMAPE)
		m.MAPE = &mape
	}

	return m, nil
}
