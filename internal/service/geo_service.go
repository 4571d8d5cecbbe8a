package service

import (
	"fmt"
	"strings"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/spatial"
)

const candidateLimit = 10

// GeoService handles place name resolution and geodesic distance
type GeoService struct {
	nodeRepo *repository.NodeRepository
}

// NewGeoService creates a new geo service
func NewGeoService(nodeRepo *repository.NodeRepository) *GeoService {
	return &GeoService{nodeRepo: nodeRepo}
}

// ResolveName maps a free-text place name to a geo id. An exact match
// wins and the fuzzy candidates exclude it; with no exact match the
// first fuzzy candidate is promoted to the resolved id. No match at
// all yields null fields with an empty candidate list.
func (s *GeoService) ResolveName(name string) (*models.GeoIDResponse, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, models.ErrEmptyQuery
	}

	exact, err := s.nodeRepo.FindExact(query)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve name: %w", err)
	}

	if exact != nil {
		candidates, err := s.nodeRepo.FindLike(query, &exact.GeoID, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates: %w", err)
		}
		return &models.GeoIDResponse{
			GeoID:      &exact.GeoID,
			Name:       &exact.Name,
			Candidates: candidates,
		}, nil
	}

	candidates, err := s.nodeRepo.FindLike(query, nil, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return &models.GeoIDResponse{Candidates: []models.PlaceCandidate{}}, nil
	}

	best := candidates[0]
	return &models.GeoIDResponse{
		GeoID:      &best.GeoID,
		Name:       &best.Name,
		Candidates: candidates,
	}, nil
}

// Distance computes the haversine distance in kilometers between two
// known places
func (s *GeoService) Distance(originID, destinationID int64) (*models.DistanceResponse, error) {
	origin, err := s.nodeRepo.GetPlace(originID)
	if err != nil {
		return nil, err
	}
	destination, err := s.nodeRepo.GetPlace(destinationID)
	if err != nil {
		return nil, err
	}

	km := spatial.HaversineDistanceKM(
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude)

	return &models.DistanceResponse{
		OriginID:      originID,
		DestinationID: destinationID,
		OriginName:    origin.Name,
		DestName:      destination.Name,
		DistanceKM:    km,
	}, nil
}
