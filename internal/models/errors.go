package models

import "errors"

// Failure kinds surfaced to API callers. Handlers map these to HTTP
// status codes with errors.Is; services wrap them with context.
var (
	// ErrInvalidTimeRange - start or end is not a parseable ISO-8601 timestamp
	ErrInvalidTimeRange = errors.New("invalid start/end time")
	// ErrInvalidIDFilter - geo id list contains a non-integer token or is empty
	ErrInvalidIDFilter = errors.New("invalid geo_ids filter")
	// ErrInvalidArgument - an enum-like parameter holds an unknown value
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFillValue - fill is neither "nan" nor a parseable float
	ErrInvalidFillValue = errors.New("invalid fill value; use 'nan' or a float")
	// ErrEmptyQuery - blank name lookup
	ErrEmptyQuery = errors.New("missing name")
	// ErrLengthMismatch - metric inputs flatten to different lengths
	ErrLengthMismatch = errors.New("length mismatch between y_true and y_pred")
	// ErrNoValidPairs - no numeric pair survived null/NaN filtering
	ErrNoValidPairs = errors.New("no valid numeric pairs")
	// ErrUpstreamUnavailable - the store or an upstream transport failed
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound - a referenced place does not exist
	ErrNotFound = errors.New("not found")
)
