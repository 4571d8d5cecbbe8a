package repository_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE places (
			geo_id INTEGER PRIMARY KEY,
			type TEXT,
			longitude REAL,
			latitude REAL,
			name TEXT NOT NULL,
			province TEXT
		)`,
		`CREATE TABLE relations (
			rel_id INTEGER PRIMARY KEY,
			type TEXT,
			origin_id INTEGER NOT NULL,
			destination_id INTEGER NOT NULL,
			cost REAL
		)`,
		`CREATE TABLE dyna (
			dyna_id INTEGER PRIMARY KEY,
			type TEXT,
			time TEXT NOT NULL,
			origin_id INTEGER NOT NULL,
			destination_id INTEGER NOT NULL,
			flow REAL
		)`,
	}
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func seedPlaces(t *testing.T, db *sql.DB) {
	t.Helper()
	rows := [][]interface{}{
		{int64(1), "Point", 91.17, 29.65, "拉萨市", "西藏自治区"},
		{int64(2), "Point", 104.07, 30.67, "成都市", "四川省"},
		{int64(3), "Point", 103.83, 36.06, "兰州市", "甘肃省"},
		{int64(7), "Point", 87.62, 43.82, "乌鲁木齐市", "新疆维吾尔自治区"},
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO places (geo_id, type, longitude, latitude, name, province) VALUES (?,?,?,?,?,?)`,
			r...)
		require.NoError(t, err)
	}
}

func seedFlows(t *testing.T, db *sql.DB) {
	t.Helper()
	rows := [][]interface{}{
		{int64(1), "state", "2024-01-01T00:00:00Z", int64(1), int64(2), 10.0},
		{int64(2), "state", "2024-01-01T00:00:00Z", int64(2), int64(1), 7.5},
		{int64(3), "state", "2024-01-02T00:00:00Z", int64(1), int64(3), nil},
		{int64(4), "od", "2024-01-02T00:00:00Z", int64(1), int64(2), 99.0},
		{int64(5), "state", "2024-01-03T00:00:00Z", int64(1), int64(2), 4.0},
		// endpoint 9 has no place row
		{int64(6), "state", "2024-01-01T00:00:00Z", int64(1), int64(9), 3.0},
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO dyna (dyna_id, type, time, origin_id, destination_id, flow) VALUES (?,?,?,?,?,?)`,
			r...)
		require.NoError(t, err)
	}
}

func TestNodeRepository_LoadIDs(t *testing.T) {
	db := openTestDB(t)
	seedPlaces(t, db)
	repo := repository.NewNodeRepository(db, "places")

	ids, index, err := repo.LoadIDs()
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 7}, ids)
	assert.Equal(t, map[int64]int{1: 0, 2: 1, 3: 2, 7: 3}, index)
}

func TestNodeRepository_FindExact(t *testing.T) {
	db := openTestDB(t)
	seedPlaces(t, db)
	repo := repository.NewNodeRepository(db, "places")

	hit, err := repo.FindExact("拉萨市")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, int64(1), hit.GeoID)

	miss, err := repo.FindExact("拉萨")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestNodeRepository_FindLike(t *testing.T) {
	db := openTestDB(t)
	seedPlaces(t, db)
	repo := repository.NewNodeRepository(db, "places")

	candidates, err := repo.FindLike("拉萨", nil, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "拉萨市", candidates[0].Name)

	exclude := int64(1)
	excluded, err := repo.FindLike("拉萨", &exclude, 10)
	require.NoError(t, err)
	assert.Empty(t, excluded)
}

func TestNodeRepository_GetPlace(t *testing.T) {
	db := openTestDB(t)
	seedPlaces(t, db)
	repo := repository.NewNodeRepository(db, "places")

	p, err := repo.GetPlace(2)
	require.NoError(t, err)
	assert.Equal(t, "成都市", p.Name)
	assert.Equal(t, "四川省", p.Province)
	assert.InDelta(t, 104.07, p.Longitude, 1e-9)

	_, err = repo.GetPlace(999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFlowRepository_ScanWindowIsHalfOpen(t *testing.T) {
	db := openTestDB(t)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	records, err := repo.Scan("2024-01-01T00:00:00Z", "2024-01-03T00:00:00Z", "", nil)
	require.NoError(t, err)

	// dyna_id 5 sits exactly on the end bound and must be excluded
	require.Len(t, records, 5)
	for _, rec := range records {
		assert.Less(t, rec.Time, "2024-01-03T00:00:00Z")
	}
}

func TestFlowRepository_ScanIDFilterBothEnds(t *testing.T) {
	db := openTestDB(t)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	records, err := repo.Scan("2024-01-01T00:00:00Z", "2024-01-04T00:00:00Z", "", []int64{1, 2})
	require.NoError(t, err)

	// rows touching ids 3 and 9 are gone
	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Contains(t, []int64{1, 2}, rec.OriginID)
		assert.Contains(t, []int64{1, 2}, rec.DestinationID)
	}
}

func TestFlowRepository_ScanTypeFilter(t *testing.T) {
	db := openTestDB(t)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	records, err := repo.Scan("2024-01-01T00:00:00Z", "2024-01-04T00:00:00Z", "od", nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, 99.0, *records[0].Flow)
}

func TestFlowRepository_ScanNullFlow(t *testing.T) {
	db := openTestDB(t)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	records, err := repo.Scan("2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z", "state", nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Nil(t, records[0].Flow)
}

func TestFlowRepository_ScanPair(t *testing.T) {
	db := openTestDB(t)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	records, err := repo.ScanPair("2024-01-01T00:00:00Z", "2024-01-04T00:00:00Z", 1, 2, "state")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 10.0, *records[0].Flow)
	assert.Equal(t, 4.0, *records[1].Flow)
}

func TestFlowRepository_ScanJoinedKeepsDanglingEndpoints(t *testing.T) {
	db := openTestDB(t)
	seedPlaces(t, db)
	seedFlows(t, db)
	repo := repository.NewFlowRepository(db, "dyna", "places")

	rows, err := repo.ScanJoined("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", "state")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var dangling *models.JoinedFlowRow
	for i := range rows {
		if rows[i].DestinationName == "" {
			dangling = &rows[i]
		}
	}
	require.NotNil(t, dangling, "row with unknown destination should survive the join")
	assert.Equal(t, "拉萨市", dangling.OriginName)
	assert.Equal(t, "", dangling.DestinationProvince)
}

func TestRelationRepository_ScanAll(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(
		`INSERT INTO relations (rel_id, type, origin_id, destination_id, cost) VALUES
		 (1, 'geo', 1, 2, 1250.5),
		 (2, 'geo', 2, 1, NULL)`)
	require.NoError(t, err)

	repo := repository.NewRelationRepository(db, "relations")
	edges, err := repo.ScanAll()
	require.NoError(t, err)

	require.Len(t, edges, 2)
	assert.Equal(t, 1250.5, *edges[0].Cost)
	assert.Nil(t, edges[1].Cost)
}
