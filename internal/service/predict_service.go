package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/odlab/odflow-backend/internal/forecast"
	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/tensor"
)

// PredictService serves mock forecasts: historical flows replayed with
// bounded noise, plus simple extrapolation over a supplied tensor
type PredictService struct {
	flowRepo   *repository.FlowRepository
	nodeRepo   *repository.NodeRepository
	noiseRatio float64
}

// NewPredictService creates a new predict service
func NewPredictService(flowRepo *repository.FlowRepository, nodeRepo *repository.NodeRepository, noiseRatio float64) *PredictService {
	return &PredictService{flowRepo: flowRepo, nodeRepo: nodeRepo, noiseRatio: noiseRatio}
}

func (s *PredictService) perturb(records []models.FlowRecord) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range records {
		if records[i].Flow == nil {
			continue
		}
		noisy := forecast.NoisyReplay(*records[i].Flow, s.noiseRatio, rng)
		records[i].Flow = &noisy
	}
}

// Tensor replays the historical tensor with noise applied to every
// present flow; missing cells keep the requested fill policy
func (s *PredictService) Tensor(filter models.TensorFilter) (*models.TensorResponse, error) {
	if err := models.ValidateTimeRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	if !models.ValidFlowPolicy(filter.FlowPolicy) {
		return nil, fmt.Errorf("%w: unknown flow_policy %q", models.ErrInvalidArgument, filter.FlowPolicy)
	}

	idFilter, err := models.ParseGeoIDs(filter.GeoIDs)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if idFilter != nil {
		ids = idFilter
	} else {
		ids, _, err = s.nodeRepo.LoadIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to load node directory: %w", err)
		}
	}

	records, err := s.flowRepo.Scan(filter.Start, filter.End, filter.DynaType, idFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan flows: %w", err)
	}
	s.perturb(records)

	times, data := tensor.Build(records, ids, filter.FlowPolicy)

	return &models.TensorResponse{
		T:      len(times),
		N:      len(ids),
		Times:  times,
		IDs:    ids,
		Tensor: data,
		Model:  forecast.MockModelLabel,
	}, nil
}

// PairSeries replays one OD pair series with noise
func (s *PredictService) PairSeries(filter models.PairFilter) (*models.SeriesResponse, error) {
	if err := models.ValidateTimeRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	if !models.ValidFlowPolicy(filter.FlowPolicy) {
		return nil, fmt.Errorf("%w: unknown flow_policy %q", models.ErrInvalidArgument, filter.FlowPolicy)
	}

	records, err := s.flowRepo.ScanPair(
		filter.Start, filter.End, filter.OriginID, filter.DestinationID, filter.DynaType)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pair: %w", err)
	}
	s.perturb(records)

	times, series := tensor.BuildSeries(records, filter.FlowPolicy)

	return &models.SeriesResponse{
		T:             len(times),
		Times:         times,
		OriginID:      filter.OriginID,
		DestinationID: filter.DestinationID,
		Series:        series,
		Model:         forecast.MockModelLabel,
	}, nil
}

// Extrapolate projects a supplied tensor forward by horizon steps
func (s *PredictService) Extrapolate(req models.ExtrapolateRequest) (*models.TensorResponse, error) {
	if req.Horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", models.ErrInvalidArgument, req.Horizon)
	}

	var (
		projected [][][]*float64
		label     string
	)
	switch req.Method {
	case "", "naive":
		projected = forecast.Naive(req.History.Tensor, req.Horizon)
		label = "naive"
	case "moving_average":
		projected = forecast.MovingAverage(req.History.Tensor, req.Horizon, req.Window)
		label = "moving_average"
	default:
		return nil, fmt.Errorf("%w: unknown method %q", models.ErrInvalidArgument, req.Method)
	}

	return &models.TensorResponse{
		T:      len(projected),
		N:      req.History.N,
		IDs:    req.History.IDs,
		Times:  []string{},
		Tensor: projected,
		Model:  label,
	}, nil
}
