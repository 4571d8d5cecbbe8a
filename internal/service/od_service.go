package service

import (
	"fmt"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/tensor"
)

// ODService handles business logic for OD tensor and pair queries
type ODService struct {
	flowRepo *repository.FlowRepository
	nodeRepo *repository.NodeRepository
}

// NewODService creates a new OD service
func NewODService(flowRepo *repository.FlowRepository, nodeRepo *repository.NodeRepository) *ODService {
	return &ODService{flowRepo: flowRepo, nodeRepo: nodeRepo}
}

// Tensor builds the dense OD tensor for a time window. With a geo id
// filter the dense index follows caller order; otherwise all known ids
// ascending. N and ids are preserved even when the window is empty.
func (s *ODService) Tensor(filter models.TensorFilter) (*models.TensorResponse, error) {
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

	times, data := tensor.Build(records, ids, filter.FlowPolicy)

	return &models.TensorResponse{
		T:      len(times),
		N:      len(ids),
		Times:  times,
		IDs:    ids,
		Tensor: data,
	}, nil
}

// PairSeries builds the time series of one ordered OD pair
func (s *ODService) PairSeries(filter models.PairFilter) (*models.SeriesResponse, error) {
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

	times, series := tensor.BuildSeries(records, filter.FlowPolicy)

	return &models.SeriesResponse{
		T:             len(times),
		Times:         times,
		OriginID:      filter.OriginID,
		DestinationID: filter.DestinationID,
		Series:        series,
	}, nil
}
