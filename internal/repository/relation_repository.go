package repository

import (
	"database/sql"
	"fmt"

	"github.com/odlab/odflow-backend/internal/models"
)

// RelationRepository handles scans over the pairwise relation table
type RelationRepository struct {
	db    *sql.DB
	table string
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db *sql.DB, table string) *RelationRepository {
	return &RelationRepository{db: db, table: table}
}

// ScanAll returns every directed edge. Relations carry no per-request
// filter; the matrix builder drops edges with unknown endpoints.
func (r *RelationRepository) ScanAll() ([]models.Relation, error) {
	query := fmt.Sprintf(`SELECT origin_id, destination_id, cost FROM %q`, r.table)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: relation scan: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var edges []models.Relation
	for rows.Next() {
		var e models.Relation
		var cost sql.NullFloat64
		if err := rows.Scan(&e.OriginID, &e.DestinationID, &cost); err != nil {
			return nil, fmt.Errorf("%w: scan relation: %v", models.ErrUpstreamUnavailable, err)
		}
		if cost.Valid {
			v := cost.Float64
			e.Cost = &v
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: relation cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return edges, nil
}
