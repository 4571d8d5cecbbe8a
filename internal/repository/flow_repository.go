package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/odlab/odflow-backend/internal/models"
)

// FlowRepository handles filtered scans over the time-stamped OD table
type FlowRepository struct {
	db          *sql.DB
	dynaTable   string
	placesTable string
}

// NewFlowRepository creates a new flow repository
func NewFlowRepository(db *sql.DB, dynaTable, placesTable string) *FlowRepository {
	return &FlowRepository{db: db, dynaTable: dynaTable, placesTable: placesTable}
}

// Scan returns flow records in the half-open window [start, end),
// ordered ascending by time. An id filter restricts records whose
// origin AND destination are both in the set.
func (r *FlowRepository) Scan(start, end, dynaType string, idFilter []int64) ([]models.FlowRecord, error) {
	query := fmt.Sprintf(
		`SELECT time, COALESCE(type, ''), origin_id, destination_id, flow
		 FROM %q`, r.dynaTable)

	conditions := []string{"time >= ?", "time < ?"}
	args := []interface{}{start, end}

	if dynaType != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, dynaType)
	}
	if len(idFilter) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(idFilter)), ",")
		conditions = append(conditions,
			fmt.Sprintf("origin_id IN (%s)", placeholders),
			fmt.Sprintf("destination_id IN (%s)", placeholders),
		)
		for i := 0; i < 2; i++ {
			for _, id := range idFilter {
				args = append(args, id)
			}
		}
	}

	query += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY time ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: flow scan: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var records []models.FlowRecord
	for rows.Next() {
		var rec models.FlowRecord
		var flow sql.NullFloat64
		if err := rows.Scan(&rec.Time, &rec.Type, &rec.OriginID, &rec.DestinationID, &flow); err != nil {
			return nil, fmt.Errorf("%w: scan flow record: %v", models.ErrUpstreamUnavailable, err)
		}
		if flow.Valid {
			v := flow.Float64
			rec.Flow = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: flow cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return records, nil
}

// ScanPair returns the records of a single ordered (origin, destination)
// pair in [start, end), ascending by time
func (r *FlowRepository) ScanPair(start, end string, originID, destinationID int64, dynaType string) ([]models.FlowRecord, error) {
	query := fmt.Sprintf(
		`SELECT time, COALESCE(type, ''), origin_id, destination_id, flow
		 FROM %q WHERE time >= ? AND time < ? AND origin_id = ? AND destination_id = ?`,
		r.dynaTable)
	args := []interface{}{start, end, originID, destinationID}

	if dynaType != "" {
		query += " AND type = ?"
		args = append(args, dynaType)
	}
	query += " ORDER BY time ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pair scan: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var records []models.FlowRecord
	for rows.Next() {
		var rec models.FlowRecord
		var flow sql.NullFloat64
		if err := rows.Scan(&rec.Time, &rec.Type, &rec.OriginID, &rec.DestinationID, &flow); err != nil {
			return nil, fmt.Errorf("%w: scan pair record: %v", models.ErrUpstreamUnavailable, err)
		}
		if flow.Valid {
			v := flow.Float64
			rec.Flow = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: pair cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return records, nil
}

// ScanJoined returns flow records joined with place name and province
// on both ends, for the aggregation paths. Dangling foreign keys come
// back with empty name/province and are kept.
func (r *FlowRepository) ScanJoined(start, end, dynaType string) ([]models.JoinedFlowRow, error) {
	query := fmt.Sprintf(
		`SELECT d.time, d.flow,
		        COALESCE(p1.name, ''), COALESCE(p2.name, ''),
		        COALESCE(p1.province, ''), COALESCE(p2.province, '')
		 FROM %q d
		 LEFT JOIN %q p1 ON d.origin_id = p1.geo_id
		 LEFT JOIN %q p2 ON d.destination_id = p2.geo_id
		 WHERE d.time >= ? AND d.time < ?`,
		r.dynaTable, r.placesTable, r.placesTable)
	args := []interface{}{start, end}

	if dynaType != "" {
		query += " AND d.type = ?"
		args = append(args, dynaType)
	}
	query += " ORDER BY d.time ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: joined flow scan: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var result []models.JoinedFlowRow
	for rows.Next() {
		var row models.JoinedFlowRow
		var flow sql.NullFloat64
		err := rows.Scan(
			&row.Time, &flow,
			&row.OriginName, &row.DestinationName,
			&row.OriginProvince, &row.DestinationProvince,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan joined row: %v", models.ErrUpstreamUnavailable, err)
		}
		if flow.Valid {
			v := flow.Float64
			row.Flow = &v
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: joined cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return result, nil
}
