package models

// TensorResponse is the dense OD tensor payload of /od and /predict
type TensorResponse struct {
	T      int            `json:"T"`
	N      int            `json:"N"`
	Times  []string       `json:"times"`
	IDs    []int64        `json:"ids"`
	Tensor [][][]*float64 `json:"tensor"`
	Model  string         `json:"model,omitempty"` // set on mock predictions
}

// SeriesResponse is the single-pair time series payload
type SeriesResponse struct {
	T             int        `json:"T"`
	Times         []string   `json:"times"`
	OriginID      int64      `json:"origin_id"`
	DestinationID int64      `json:"destination_id"`
	Series        []*float64 `json:"series"`
	Model         string     `json:"model,omitempty"`
}

// MatrixResponse is the dense relations matrix payload
type MatrixResponse struct {
	N      int          `json:"N"`
	IDs    []int64      `json:"ids"`
	Matrix [][]*float64 `json:"matrix"`
}

// GeoIDResponse is the name resolution payload
type GeoIDResponse struct {
	GeoID      *int64           `json:"geo_id"`
	Name       *string          `json:"name"`
	Candidates []PlaceCandidate `json:"candidates"`
}

// FlowAnalysisResponse wraps a ranked flow aggregation
type FlowAnalysisResponse struct {
	PeriodType   string           `json:"period_type"`
	DateMode     string           `json:"date_mode"`
	Direction    string           `json:"direction"`
	TotalRecords int              `json:"total_records"`
	Data         []AggregatedFlow `json:"data"`
}

// CorridorResponse wraps the ranked province corridor list
type CorridorResponse struct {
	PeriodType   string     `json:"period_type"`
	TopK         int        `json:"topk"`
	TotalRecords int        `json:"total_records"`
	Data         []Corridor `json:"data"`
}

// CityCorridorResponse wraps the intra/inter province corridor lists
type CityCorridorResponse struct {
	PeriodType    string     `json:"period_type"`
	TopKIntra     int        `json:"topk_intra"`
	TopKInter     int        `json:"topk_inter"`
	IntraProvince []Corridor `json:"intra_province"`
	InterProvince []Corridor `json:"inter_province"`
}

// GrowthResponse carries a growth rate; nil means undefined (safe mode)
type GrowthResponse struct {
	Growth *float64 `json:"growth"`
}

// MetricsResponse carries elementwise comparison metrics
type MetricsResponse struct {
	RMSE float64  `json:"rmse"`
	MAE  float64  `json:"mae"`
	MAPE *float64 `json:"mape"` // nil when every true value is zero
}

// DistanceResponse is the great-circle distance between two places
type DistanceResponse struct {
	OriginID      int64   `json:"origin_id"`
	DestinationID int64   `json:"destination_id"`
	OriginName    string  `json:"origin_name"`
	DestName      string  `json:"destination_name"`
	DistanceKM    float64 `json:"distance_km"`
}

// ChatResponse is the agent reply payload
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}
