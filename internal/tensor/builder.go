// Package tensor materializes dense OD tensors and matrices from
// sparse, time-ascending scan results. All structures are built fresh
// per request; nothing here holds state.
package tensor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
)

// TimeAxis returns the distinct timestamps of a scan ordered by their
// parsed epoch (original strings preserved for display), plus the
// induced time -> index map. Lexical order is only a tie-breaker, so
// mixed timestamp formats cannot silently scramble the axis.
func TimeAxis(records []models.FlowRecord) ([]string, map[string]int) {
	seen := make(map[string]struct{}, len(records))
	times := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Time]; ok {
			continue
		}
		seen[rec.Time] = struct{}{}
		times = append(times, rec.Time)
	}

	epochs := make(map[string]int64, len(times))
	for _, t := range times {
		if e, err := models.ParseTimestamp(t); err == nil {
			epochs[t] = e
		}
	}
	sort.Slice(times, func(i, j int) bool {
		ei, ej := epochs[times[i]], epochs[times[j]]
		if ei != ej {
			return ei < ej
		}
		return times[i] < times[j]
	})

	index := make(map[string]int, len(times))
	for i, t := range times {
		index[t] = i
	}
	return times, index
}

// fillCell applies the missing-value policy for one cell write.
// A present flow is always written verbatim; the policy only governs
// rows whose flow is absent.
func fillCell(cell **float64, flow *float64, policy string) {
	if flow != nil {
		v := *flow
		*cell = &v
		return
	}
	switch policy {
	case models.FlowPolicyZero:
		zero := 0.0
		*cell = &zero
	case models.FlowPolicyNull:
		*cell = nil
	case models.FlowPolicySkip:
		// keep the pre-filled default
	}
}

// Build turns a scan into a dense [T][N][N] tensor over the given
// dense id ordering. Rows whose endpoints are not both in the index
// are dropped; duplicate (time, origin, destination) rows resolve
// last-write-wins in scan order.
func Build(records []models.FlowRecord, ids []int64, policy string) ([]string, [][][]*float64) {
	n := len(ids)
	if len(records) == 0 {
		return []string{}, [][][]*float64{}
	}

	times, timeIndex := TimeAxis(records)
	idIndex := repository.DenseIndex(ids)

	var prefill *float64
	if policy == models.FlowPolicyZero {
		zero := 0.0
		prefill = &zero
	}

	data := make([][][]*float64, len(times))
	for t := range data {
		data[t] = make([][]*float64, n)
		for i := range data[t] {
			row := make([]*float64, n)
			if prefill != nil {
				for j := range row {
					row[j] = prefill
				}
			}
			data[t][i] = row
		}
	}

	for _, rec := range records {
		i, ok1 := idIndex[rec.OriginID]
		j, ok2 := idIndex[rec.DestinationID]
		if !ok1 || !ok2 {
			continue
		}
		fillCell(&data[timeIndex[rec.Time]][i][j], rec.Flow, policy)
	}

	return times, data
}

// BuildSeries is the single-pair variant of Build: a 1-D series over
// the scan's own time axis.
func BuildSeries(records []models.FlowRecord, policy string) ([]string, []*float64) {
	if len(records) == 0 {
		return []string{}, []*float64{}
	}

	times, timeIndex := TimeAxis(records)

	series := make([]*float64, len(times))
	if policy == models.FlowPolicyZero {
		zero := 0.0
		for t := range series {
			series[t] = &zero
		}
	}

	for _, rec := range records {
		fillCell(&series[timeIndex[rec.Time]], rec.Flow, policy)
	}

	return times, series
}

// ParseFill interprets the fill parameter of the relations matrix:
// "nan" means null cells, anything else must parse as a float.
func ParseFill(fill string) (*float64, error) {
	if strings.EqualFold(strings.TrimSpace(fill), "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fill), 64)
	if err != nil {
		return nil, models.ErrInvalidFillValue
	}
	return &v, nil
}

// RelationMatrix turns an edge scan into a dense N×N cost matrix.
// Edges with unknown endpoints are dropped; null costs stay null.
func RelationMatrix(edges []models.Relation, ids []int64, fillValue *float64) [][]*float64 {
	n := len(ids)
	idIndex := repository.DenseIndex(ids)

	matrix := make([][]*float64, n)
	for i := range matrix {
		row := make([]*float64, n)
		if fillValue != nil {
			for j := range row {
				row[j] = fillValue
			}
		}
		matrix[i] = row
	}

	for _, e := range edges {
		i, ok1 := idIndex[e.OriginID]
		j, ok2 := idIndex[e.DestinationID]
		if !ok1 || !ok2 {
			continue
		}
		if e.Cost == nil {
			matrix[i][j] = nil
		} else {
			v := *e.Cost
			matrix[i][j] = &v
		}
	}

	return matrix
}
