package models

// FlowRecord is one time-stamped OD observation from the dyna table
type FlowRecord struct {
	Time          string   `json:"time"` // ISO-8601 string as stored
	Type          string   `json:"type,omitempty"`
	OriginID      int64    `json:"origin_id"`
	DestinationID int64    `json:"destination_id"`
	Flow          *float64 `json:"flow"` // nil when the stored flow is NULL
}

// JoinedFlowRow is a flow record joined with place metadata on both
// ends, as produced by the aggregation scan. Name/province fields are
// empty when the foreign key does not resolve.
type JoinedFlowRow struct {
	Time                string
	Flow                *float64
	OriginName          string
	DestinationName     string
	OriginProvince      string
	DestinationProvince string
}

// AggregatedFlow is one ranked row of a province- or city-level
// flow aggregation
type AggregatedFlow struct {
	Key  string  `json:"key"`
	Date *string `json:"date"` // nil in total mode
	Flow float64 `json:"flow"`
	Rank int     `json:"rank"`
}

// Corridor is one ranked origin→destination pair aggregate
type Corridor struct {
	SendKey   string  `json:"send"`
	ArriveKey string  `json:"arrive"`
	Flow      float64 `json:"flow"`
	Rank      int     `json:"rank"`
}

// Flow policy values for missing flow cells
const (
	FlowPolicyZero = "zero"
	FlowPolicyNull = "null"
	FlowPolicySkip = "skip"
)

// ValidFlowPolicy reports whether p is one of zero|null|skip
func ValidFlowPolicy(p string) bool {
	return p == FlowPolicyZero || p == FlowPolicyNull || p == FlowPolicySkip
}

// Grouping dimensions and modes for flow aggregation
const (
	DimensionProvince = "province"
	DimensionCity     = "city"

	DirectionSend   = "send"
	DirectionArrive = "arrive"

	DateModeDaily = "daily"
	DateModeTotal = "total"
)
