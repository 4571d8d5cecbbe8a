package service

import (
	"fmt"

	"github.com/odlab/odflow-backend/internal/analysis"
	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
)

// Default ranking depths when the request leaves them unset
const (
	defaultTopK      = 10
	defaultTopKIntra = 10
	defaultTopKInter = 30
)

// AnalysisService handles ranked flow aggregations and corridors
type AnalysisService struct {
	flowRepo *repository.FlowRepository
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(flowRepo *repository.FlowRepository) *AnalysisService {
	return &AnalysisService{flowRepo: flowRepo}
}

func normalizeDateMode(mode string) (string, error) {
	switch mode {
	case "":
		return models.DateModeDaily, nil
	case models.DateModeDaily, models.DateModeTotal:
		return mode, nil
	}
	return "", fmt.Errorf("%w: unknown date_mode %q", models.ErrInvalidArgument, mode)
}

func normalizeDirection(direction string) (string, error) {
	switch direction {
	case "":
		return models.DirectionSend, nil
	case models.DirectionSend, models.DirectionArrive:
		return direction, nil
	case "receive":
		return models.DirectionArrive, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", models.ErrInvalidArgument, direction)
}

func (s *AnalysisService) scanJoined(start, end, dynaType string) ([]models.JoinedFlowRow, error) {
	if err := models.ValidateTimeRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.flowRepo.ScanJoined(start, end, dynaType)
	if err != nil {
		return nil, fmt.Errorf("failed to scan joined flows: %w", err)
	}
	return rows, nil
}

// Flow aggregates flows by province or city, ranked per the request
func (s *AnalysisService) Flow(dimension string, req models.FlowAnalysisRequest) (*models.FlowAnalysisResponse, error) {
	dateMode, err := normalizeDateMode(req.DateMode)
	if err != nil {
		return nil, err
	}
	direction, err := normalizeDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	rows, err := s.scanJoined(req.Start, req.End, req.DynaType)
	if err != nil {
		return nil, err
	}

	data := analysis.AggregateFlow(rows, dimension, direction, dateMode)

	return &models.FlowAnalysisResponse{
		PeriodType:   req.PeriodType,
		DateMode:     dateMode,
		Direction:    direction,
		TotalRecords: len(rows),
		Data:         data,
	}, nil
}

// ProvinceCorridors ranks province-to-province corridors over totals
func (s *AnalysisService) ProvinceCorridors(req models.CorridorRequest) (*models.CorridorResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	rows, err := s.scanJoined(req.Start, req.End, req.DynaType)
	if err != nil {
		return nil, err
	}

	return &models.CorridorResponse{
		PeriodType:   req.PeriodType,
		TopK:         topK,
		TotalRecords: len(rows),
		Data:         analysis.ProvinceCorridors(rows, topK),
	}, nil
}

// CityCorridors ranks city-to-city corridors, split intra/inter province
func (s *AnalysisService) CityCorridors(req models.CityCorridorRequest) (*models.CityCorridorResponse, error) {
	topKIntra := req.TopKIntra
	if topKIntra <= 0 {
		topKIntra = defaultTopKIntra
	}
	topKInter := req.TopKInter
	if topKInter <= 0 {
		topKInter = defaultTopKInter
	}

	rows, err := s.scanJoined(req.Start, req.End, req.DynaType)
	if err != nil {
		return nil, err
	}

	set := analysis.CityCorridors(rows, topKIntra, topKInter)

	return &models.CityCorridorResponse{
		PeriodType:    req.PeriodType,
		TopKIntra:     topKIntra,
		TopKInter:     topKInter,
		IntraProvince: set.IntraProvince,
		InterProvince: set.InterProvince,
	}, nil
}
