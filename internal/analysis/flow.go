// Package analysis groups scanned OD flow rows by province or city,
// sums flow and assigns competition ranks. Everything operates on
// request-scoped slices; there is no shared state.
package analysis

import (
	"sort"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/stats"
)

// UnknownKey buckets flow whose place lookup did not resolve. Such
// flow still counts; it is never dropped.
const UnknownKey = "Unknown"

func groupKey(row models.JoinedFlowRow, dimension, direction string) string {
	var key string
	if dimension == models.DimensionProvince {
		if direction == models.DirectionArrive {
			key = row.DestinationProvince
		} else {
			key = row.OriginProvince
		}
	} else {
		if direction == models.DirectionArrive {
			key = row.DestinationName
		} else {
			key = row.OriginName
		}
	}
	if key == "" {
		return UnknownKey
	}
	return key
}

func flowValue(row models.JoinedFlowRow) float64 {
	if row.Flow == nil {
		return 0.0
	}
	return *row.Flow
}

// AggregateFlow sums flow by province or city and assigns ranks.
// In daily mode rows are grouped by (timestamp, key) and ranked within
// each timestamp independently; in total mode one global ranking is
// produced and Date is nil. Output is ordered by ascending rank.
func AggregateFlow(rows []models.JoinedFlowRow, dimension, direction, dateMode string) []models.AggregatedFlow {
	if len(rows) == 0 {
		return []models.AggregatedFlow{}
	}

	if dateMode == models.DateModeTotal {
		sums := make(map[string]float64)
		for _, row := range rows {
			sums[groupKey(row, dimension, direction)] += flowValue(row)
		}
		return rankGroups(sums, nil)
	}

	// daily: independent ranking per distinct timestamp
	byDate := make(map[string]map[string]float64)
	dates := make([]string, 0)
	for _, row := range rows {
		if _, ok := byDate[row.Time]; !ok {
			byDate[row.Time] = make(map[string]float64)
			dates = append(dates, row.Time)
		}
		byDate[row.Time][groupKey(row, dimension, direction)] += flowValue(row)
	}
	sort.Strings(dates)

	var result []models.AggregatedFlow
	for _, date := range dates {
		d := date
		result = append(result, rankGroups(byDate[date], &d)...)
	}

	// global ordering by rank, then date and key for determinism
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Rank != result[j].Rank {
			return result[i].Rank < result[j].Rank
		}
		di, dj := "", ""
		if result[i].Date != nil {
			di = *result[i].Date
		}
		if result[j].Date != nil {
			dj = *result[j].Date
		}
		if di != dj {
			return di < dj
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// rankGroups turns one key->sum map into ranked rows ordered by
// descending flow (equivalently ascending rank)
func rankGroups(sums map[string]float64, date *string) []models.AggregatedFlow {
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if sums[keys[i]] != sums[keys[j]] {
			return sums[keys[i]] > sums[keys[j]]
		}
		return keys[i] < keys[j]
	})

	flows := make([]float64, len(keys))
	for i, k := range keys {
		flows[i] = sums[k]
	}
	ranks := stats.MinRanks(flows)

	result := make([]models.AggregatedFlow, len(keys))
	for i, k := range keys {
		result[i] = models.AggregatedFlow{Key: k, Date: date, Flow: sums[k], Rank: ranks[i]}
	}
	return result
}
