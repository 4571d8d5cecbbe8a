package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TensorFilter represents query parameters for the OD tensor endpoints
type TensorFilter struct {
	Start      string `form:"start" binding:"required"`
	End        string `form:"end" binding:"required"`
	GeoIDs     string `form:"geo_ids"`   // comma-separated, optional
	DynaType   string `form:"dyna_type"` // optional type tag filter
	FlowPolicy string `form:"flow_policy,default=zero"`
}

// PairFilter represents query parameters for the single-pair endpoints
type PairFilter struct {
	Start         string `form:"start" binding:"required"`
	End           string `form:"end" binding:"required"`
	OriginID      int64  `form:"origin_id" binding:"required"`
	DestinationID int64  `form:"destination_id" binding:"required"`
	DynaType      string `form:"dyna_type"`
	FlowPolicy    string `form:"flow_policy,default=zero"`
}

// FlowAnalysisRequest is the body of the province/city flow endpoints
type FlowAnalysisRequest struct {
	PeriodType string `json:"period_type" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	DateMode   string `json:"date_mode"`
	Direction  string `json:"direction"`
	DynaType   string `json:"dyna_type"`
}

// CorridorRequest is the body of the province corridor endpoint
type CorridorRequest struct {
	PeriodType string `json:"period_type" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	TopK       int    `json:"topk"`
	DynaType   string `json:"dyna_type"`
}

// CityCorridorRequest is the body of the city corridor endpoint
type CityCorridorRequest struct {
	PeriodType string `json:"period_type" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	TopKIntra  int    `json:"topk_intra"`
	TopKInter  int    `json:"topk_inter"`
	DynaType   string `json:"dyna_type"`
}

// GrowthRequest is the body of the growth endpoint
type GrowthRequest struct {
	A    float64 `json:"a"`
	B    float64 `json:"b"`
	Safe *bool   `json:"safe"` // defaults to true
}

// MetricsRequest carries arbitrarily nested numeric payloads
type MetricsRequest struct {
	YTrue interface{} `json:"y_true" binding:"required"`
	YPred interface{} `json:"y_pred" binding:"required"`
}

// ExtrapolateRequest is the body of the forecast extrapolation endpoint
type ExtrapolateRequest struct {
	History TensorResponse `json:"history" binding:"required"`
	Horizon int            `json:"horizon" binding:"required"`
	Method  string         `json:"method"` // naive | moving_average
	Window  int            `json:"window"`
}

// ChatRequest is the body of the agent chat endpoint
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ParseGeoIDs parses a comma-separated id list, preserving caller order.
// Returns nil for an absent filter.
func ParseGeoIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad token %q", ErrInvalidIDFilter, tok)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidIDFilter)
	}
	return ids, nil
}
