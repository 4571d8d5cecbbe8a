package repository

import (
	"database/sql"
	"fmt"

	"github.com/odlab/odflow-backend/internal/models"
)

// NodeRepository handles database operations for the place directory
type NodeRepository struct {
	db    *sql.DB
	table string // bound at startup, never caller-supplied
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(db *sql.DB, table string) *NodeRepository {
	return &NodeRepository{db: db, table: table}
}

// LoadIDs returns all geo_ids in ascending order together with the
// induced id -> dense index map. The map is rebuilt on every call;
// index meaning is request-scoped by design.
func (r *NodeRepository) LoadIDs() ([]int64, map[int64]int, error) {
	query := fmt.Sprintf(`SELECT geo_id FROM %q ORDER BY geo_id ASC`, r.table)
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load node ids: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("%w: scan node id: %v", models.ErrUpstreamUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: node id cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return ids, DenseIndex(ids), nil
}

// DenseIndex maps an ordered id list onto [0, N)
func DenseIndex(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

// FindExact returns the place whose name equals q, or nil
func (r *NodeRepository) FindExact(q string) (*models.PlaceCandidate, error) {
	query := fmt.Sprintf(`SELECT geo_id, name FROM %q WHERE name = ? LIMIT 1`, r.table)
	var c models.PlaceCandidate
	err := r.db.QueryRow(query, q).Scan(&c.GeoID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: exact name lookup: %v", models.ErrUpstreamUnavailable, err)
	}
	return &c, nil
}

// FindLike returns up to limit places whose name contains q,
// optionally excluding one geo_id
func (r *NodeRepository) FindLike(q string, excludeID *int64, limit int) ([]models.PlaceCandidate, error) {
	query := fmt.Sprintf(`SELECT geo_id, name FROM %q WHERE name LIKE ?`, r.table)
	args := []interface{}{"%" + q + "%"}
	if excludeID != nil {
		query += " AND geo_id != ?"
		args = append(args, *excludeID)
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: fuzzy name lookup: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	candidates := make([]models.PlaceCandidate, 0, limit)
	for rows.Next() {
		var c models.PlaceCandidate
		if err := rows.Scan(&c.GeoID, &c.Name); err != nil {
			return nil, fmt.Errorf("%w: scan candidate: %v", models.ErrUpstreamUnavailable, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: candidate cursor: %v", models.ErrUpstreamUnavailable, err)
	}

	return candidates, nil
}

// GetPlace returns the full place row for one geo_id
func (r *NodeRepository) GetPlace(id int64) (*models.Place, error) {
	query := fmt.Sprintf(
		`SELECT geo_id, COALESCE(type, ''), longitude, latitude, name, COALESCE(province, '')
		 FROM %q WHERE geo_id = ?`, r.table)

	var p models.Place
	err := r.db.QueryRow(query, id).Scan(
		&p.GeoID, &p.Type, &p.Longitude, &p.Latitude, &p.Name, &p.Province,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: place %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get place: %v", models.ErrUpstreamUnavailable, err)
	}
	return &p, nil
}
