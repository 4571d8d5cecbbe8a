package service_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/service"
)

func openSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE places (
			geo_id INTEGER PRIMARY KEY, type TEXT,
			longitude REAL, latitude REAL,
			name TEXT NOT NULL, province TEXT
		)`,
		`CREATE TABLE relations (
			rel_id INTEGER PRIMARY KEY, type TEXT,
			origin_id INTEGER NOT NULL, destination_id INTEGER NOT NULL, cost REAL
		)`,
		`CREATE TABLE dyna (
			dyna_id INTEGER PRIMARY KEY, type TEXT, time TEXT NOT NULL,
			origin_id INTEGER NOT NULL, destination_id INTEGER NOT NULL, flow REAL
		)`,
		`INSERT INTO places VALUES
			(1, 'Point', 91.17, 29.65, '拉萨市', '西藏自治区'),
			(2, 'Point', 104.07, 30.67, '成都市', '四川省'),
			(3, 'Point', 102.71, 25.05, '昆明市', '云南省')`,
		`INSERT INTO relations VALUES
			(1, 'geo', 1, 2, 1250.0),
			(2, 'geo', 2, 1, NULL)`,
		`INSERT INTO dyna VALUES
			(1, 'state', '2024-01-01T00:00:00Z', 1, 2, 10),
			(2, 'state', '2024-01-01T00:00:00Z', 2, 1, 7),
			(3, 'state', '2024-01-02T00:00:00Z', 1, 2, NULL),
			(4, 'state', '2024-01-02T00:00:00Z', 1, 3, 5)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func newServices(t *testing.T) (*service.ODService, *service.AnalysisService, *service.GeoService, *service.RelationsService) {
	t.Helper()
	db := openSeededDB(t)
	nodeRepo := repository.NewNodeRepository(db, "places")
	flowRepo := repository.NewFlowRepository(db, "dyna", "places")
	relationRepo := repository.NewRelationRepository(db, "relations")
	return service.NewODService(flowRepo, nodeRepo),
		service.NewAnalysisService(flowRepo),
		service.NewGeoService(nodeRepo),
		service.NewRelationsService(relationRepo, nodeRepo)
}

func TestODService_TensorAllIDs(t *testing.T) {
	od, _, _, _ := newServices(t)

	resp, err := od.Tensor(models.TensorFilter{
		Start:      "2024-01-01T00:00:00Z",
		End:        "2024-01-03T00:00:00Z",
		FlowPolicy: models.FlowPolicyZero,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.T)
	assert.Equal(t, 3, resp.N)
	assert.Equal(t, []int64{1, 2, 3}, resp.IDs)

	// day one: 1->2 carries 10, 2->1 carries 7, the rest is zero-filled
	assert.Equal(t, 10.0, *resp.Tensor[0][0][1])
	assert.Equal(t, 7.0, *resp.Tensor[0][1][0])
	assert.Equal(t, 0.0, *resp.Tensor[0][2][2])

	// day two: the NULL flow is filled per policy
	assert.Equal(t, 0.0, *resp.Tensor[1][0][1])
	assert.Equal(t, 5.0, *resp.Tensor[1][0][2])
}

func TestODService_TensorCallerIDOrder(t *testing.T) {
	od, _, _, _ := newServices(t)

	resp, err := od.Tensor(models.TensorFilter{
		Start:      "2024-01-01T00:00:00Z",
		End:        "2024-01-02T00:00:00Z",
		GeoIDs:     "2,1",
		FlowPolicy: models.FlowPolicyNull,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 1}, resp.IDs)
	// with axes [2, 1] the 1->2 flow lands at [1][0]
	assert.Equal(t, 10.0, *resp.Tensor[0][1][0])
	assert.Equal(t, 7.0, *resp.Tensor[0][0][1])
}

func TestODService_TensorEmptyWindowKeepsShape(t *testing.T) {
	od, _, _, _ := newServices(t)

	resp, err := od.Tensor(models.TensorFilter{
		Start:      "2030-01-01T00:00:00Z",
		End:        "2030-02-01T00:00:00Z",
		FlowPolicy: models.FlowPolicyZero,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.T)
	assert.Equal(t, 3, resp.N)
	assert.Empty(t, resp.Times)
	assert.Empty(t, resp.Tensor)
}

func TestODService_TensorRejectsBadInput(t *testing.T) {
	od, _, _, _ := newServices(t)

	_, err := od.Tensor(models.TensorFilter{
		Start: "not-a-time", End: "2024-01-02T00:00:00Z", FlowPolicy: models.FlowPolicyZero,
	})
	assert.ErrorIs(t, err, models.ErrInvalidTimeRange)

	_, err = od.Tensor(models.TensorFilter{
		Start: "2024-01-01T00:00:00Z", End: "2024-01-02T00:00:00Z",
		GeoIDs: "1,x", FlowPolicy: models.FlowPolicyZero,
	})
	assert.ErrorIs(t, err, models.ErrInvalidIDFilter)
}

func TestODService_PairSeries(t *testing.T) {
	od, _, _, _ := newServices(t)

	resp, err := od.PairSeries(models.PairFilter{
		Start: "2024-01-01T00:00:00Z", End: "2024-01-03T00:00:00Z",
		OriginID: 1, DestinationID: 2,
		FlowPolicy: models.FlowPolicyNull,
	})
	require.NoError(t, err)

	require.Equal(t, 2, resp.T)
	assert.Equal(t, 10.0, *resp.Series[0])
	assert.Nil(t, resp.Series[1])
}

func TestAnalysisService_ProvinceFlowTotals(t *testing.T) {
	_, analysisSvc, _, _ := newServices(t)

	resp, err := analysisSvc.Flow(models.DimensionProvince, models.FlowAnalysisRequest{
		PeriodType: "custom",
		Start:      "2024-01-01T00:00:00Z",
		End:        "2024-01-03T00:00:00Z",
		DateMode:   models.DateModeTotal,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DirectionSend, resp.Direction)
	assert.Equal(t, 4, resp.TotalRecords)

	// Tibet sends 10 + 0 (null) + 5, Sichuan sends 7
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "西藏自治区", resp.Data[0].Key)
	assert.Equal(t, 15.0, resp.Data[0].Flow)
	assert.Equal(t, 1, resp.Data[0].Rank)
	assert.Equal(t, "四川省", resp.Data[1].Key)
}

func TestAnalysisService_RejectsUnknownDirection(t *testing.T) {
	_, analysisSvc, _, _ := newServices(t)

	_, err := analysisSvc.Flow(models.DimensionProvince, models.FlowAnalysisRequest{
		PeriodType: "custom",
		Start:      "2024-01-01T00:00:00Z",
		End:        "2024-01-02T00:00:00Z",
		Direction:  "sideways",
	})
	assert.Error(t, err)
}

func TestAnalysisService_CityCorridors(t *testing.T) {
	_, analysisSvc, _, _ := newServices(t)

	resp, err := analysisSvc.CityCorridors(models.CityCorridorRequest{
		PeriodType: "custom",
		Start:      "2024-01-01T00:00:00Z",
		End:        "2024-01-03T00:00:00Z",
	})
	require.NoError(t, err)

	// all three cities sit in different provinces
	assert.Empty(t, resp.IntraProvince)
	require.Len(t, resp.InterProvince, 3)
	assert.Equal(t, 10, resp.TopKIntra)
	assert.Equal(t, 30, resp.TopKInter)
}

func TestGeoService_ResolveExact(t *testing.T) {
	_, _, geo, _ := newServices(t)

	resp, err := geo.ResolveName("拉萨市")
	require.NoError(t, err)
	require.NotNil(t, resp.GeoID)
	assert.Equal(t, int64(1), *resp.GeoID)
	assert.Empty(t, resp.Candidates)
}

func TestGeoService_ResolveFuzzy(t *testing.T) {
	_, _, geo, _ := newServices(t)

	resp, err := geo.ResolveName("拉萨")
	require.NoError(t, err)
	require.NotNil(t, resp.GeoID)
	assert.Equal(t, int64(1), *resp.GeoID)
	require.Len(t, resp.Candidates, 1)
}

func TestGeoService_ResolveNone(t *testing.T) {
	_, _, geo, _ := newServices(t)

	resp, err := geo.ResolveName("不存在的地方")
	require.NoError(t, err)
	assert.Nil(t, resp.GeoID)
	assert.Nil(t, resp.Name)
	assert.Empty(t, resp.Candidates)
}

func TestGeoService_ResolveEmpty(t *testing.T) {
	_, _, geo, _ := newServices(t)

	_, err := geo.ResolveName("   ")
	assert.ErrorIs(t, err, models.ErrEmptyQuery)
}

func TestGeoService_Distance(t *testing.T) {
	_, _, geo, _ := newServices(t)

	resp, err := geo.Distance(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "拉萨市", resp.OriginName)
	assert.InDelta(t, 1250, resp.DistanceKM, 30)

	_, err = geo.Distance(1, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRelationsService_Matrix(t *testing.T) {
	_, _, _, relations := newServices(t)

	resp, err := relations.Matrix("nan")
	require.NoError(t, err)

	assert.Equal(t, 3, resp.N)
	assert.Equal(t, 1250.0, *resp.Matrix[0][1])
	assert.Nil(t, resp.Matrix[1][0]) // NULL cost stays null
	assert.Nil(t, resp.Matrix[2][2]) // absent edge takes the fill
}

func TestRelationsService_MatrixBadFill(t *testing.T) {
	_, _, _, relations := newServices(t)

	_, err := relations.Matrix("many")
	assert.ErrorIs(t, err, models.ErrInvalidFillValue)
}
