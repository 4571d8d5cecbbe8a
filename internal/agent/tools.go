package agent

import (
	"context"
	"encoding/json"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/internal/stats"
)

func marshalResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func timeRangeProps() map[string]any {
	return map[string]any{
		"start": map[string]any{"type": "string", "description": "window start, ISO-8601, inclusive"},
		"end":   map[string]any{"type": "string", "description": "window end, ISO-8601, exclusive"},
	}
}

// BuildTools assembles the toolbox the chat model may call. Every tool
// reuses a service, so agent answers and REST answers can never drift.
func BuildTools(geo *service.GeoService, analysisSvc *service.AnalysisService, od *service.ODService) []Tool {
	return []Tool{
		{
			Name:        "resolve_place",
			Description: "Resolve a free-text place name to its geo id, with fuzzy candidates",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string", "description": "place name, exact or partial"},
				},
				"required": []string{"name"},
			},
			Handler: func(ctx context.Context, args string) (string, error) {
				var params struct {
					Name string `json:"name"`
				}
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return "", err
				}
				result, err := geo.ResolveName(params.Name)
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Name:        "province_flow",
			Description: "Rank aggregated flows by province over a time window",
			Parameters:  flowToolParams(),
			Handler:     flowToolHandler(analysisSvc, models.DimensionProvince),
		},
		{
			Name:        "city_flow",
			Description: "Rank aggregated flows by city over a time window",
			Parameters:  flowToolParams(),
			Handler:     flowToolHandler(analysisSvc, models.DimensionCity),
		},
		{
			Name:        "province_corridor",
			Description: "Rank the top province-to-province corridors by total flow",
			Parameters: map[string]any{
				"type": "object",
				"properties": mergeProps(timeRangeProps(), map[string]any{
					"topk": map[string]any{"type": "integer", "description": "how many corridors to keep, default 10"},
				}),
				"required": []string{"start", "end"},
			},
			Handler: func(ctx context.Context, args string) (string, error) {
				var params struct {
					Start string `json:"start"`
					End   string `json:"end"`
					TopK  int    `json:"topk"`
				}
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return "", err
				}
				result, err := analysisSvc.ProvinceCorridors(models.CorridorRequest{
					PeriodType: "custom",
					Start:      params.Start,
					End:        params.End,
					TopK:       params.TopK,
				})
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Name:        "city_corridor",
			Description: "Rank city-to-city corridors, split into intra-province and inter-province lists",
			Parameters: map[string]any{
				"type": "object",
				"properties": mergeProps(timeRangeProps(), map[string]any{
					"topk_intra": map[string]any{"type": "integer", "description": "intra-province list depth, default 10"},
					"topk_inter": map[string]any{"type": "integer", "description": "inter-province list depth, default 30"},
				}),
				"required": []string{"start", "end"},
			},
			Handler: func(ctx context.Context, args string) (string, error) {
				var params struct {
					Start     string `json:"start"`
					End       string `json:"end"`
					TopKIntra int    `json:"topk_intra"`
					TopKInter int    `json:"topk_inter"`
				}
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return "", err
				}
				result, err := analysisSvc.CityCorridors(models.CityCorridorRequest{
					PeriodType: "custom",
					Start:      params.Start,
					End:        params.End,
					TopKIntra:  params.TopKIntra,
					TopKInter:  params.TopKInter,
				})
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Name:        "od_pair_series",
			Description: "Fetch the flow time series between one origin and one destination geo id",
			Parameters: map[string]any{
				"type": "object",
				"properties": mergeProps(timeRangeProps(), map[string]any{
					"origin_id":      map[string]any{"type": "integer"},
					"destination_id": map[string]any{"type": "integer"},
				}),
				"required": []string{"start", "end", "origin_id", "destination_id"},
			},
			Handler: func(ctx context.Context, args string) (string, error) {
				var params struct {
					Start         string `json:"start"`
					End           string `json:"end"`
					OriginID      int64  `json:"origin_id"`
					DestinationID int64  `json:"destination_id"`
				}
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return "", err
				}
				result, err := od.PairSeries(models.PairFilter{
					Start:         params.Start,
					End:           params.End,
					OriginID:      params.OriginID,
					DestinationID: params.DestinationID,
					FlowPolicy:    models.FlowPolicyZero,
				})
				if err != nil {
					return "", err
				}
				return marshalResult(result)
			},
		},
		{
			Name:        "growth_rate",
			Description: "Compute the relative growth rate from value a to value b",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": map[string]any{"type": "number", "description": "baseline value"},
					"b": map[string]any{"type": "number", "description": "comparison value"},
				},
				"required": []string{"a", "b"},
			},
			Handler: func(ctx context.Context, args string) (string, error) {
				var params struct {
					A float64 `json:"a"`
					B float64 `json:"b"`
				}
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return "", err
				}
				return marshalResult(models.GrowthResponse{
					Growth: stats.GrowthRate(params.A, params.B, true),
				})
			},
		},
	}
}

func flowToolParams() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": mergeProps(timeRangeProps(), map[string]any{
			"date_mode": map[string]any{"type": "string", "enum": []string{"daily", "total"}},
			"direction": map[string]any{"type": "string", "enum": []string{"send", "arrive"}},
		}),
		"required": []string{"start", "end"},
	}
}

func flowToolHandler(analysisSvc *service.AnalysisService, dimension string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, args string) (string, error) {
		var params struct {
			Start     string `json:"start"`
			End       string `json:"end"`
			DateMode  string `json:"date_mode"`
			Direction string `json:"direction"`
		}
		if err := json.Unmarshal([]byte(args), &params); err != nil {
			return "", err
		}
		result, err := analysisSvc.Flow(dimension, models.FlowAnalysisRequest{
			PeriodType: "custom",
			Start:      params.Start,
			End:        params.End,
			DateMode:   params.DateMode,
			Direction:  params.Direction,
		})
		if err != nil {
			return "", err
		}
		return marshalResult(result)
	}
}

func mergeProps(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
