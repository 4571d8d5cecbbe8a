package service

import (
	"fmt"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/tensor"
)

// RelationsService handles business logic for the relations matrix
type RelationsService struct {
	relationRepo *repository.RelationRepository
	nodeRepo     *repository.NodeRepository
}

// NewRelationsService creates a new relations service
func NewRelationsService(relationRepo *repository.RelationRepository, nodeRepo *repository.NodeRepository) *RelationsService {
	return &RelationsService{relationRepo: relationRepo, nodeRepo: nodeRepo}
}

// Matrix builds the dense N×N cost matrix over all known places
func (s *RelationsService) Matrix(fill string) (*models.MatrixResponse, error) {
	fillValue, err := tensor.ParseFill(fill)
	if err != nil {
		return nil, err
	}

	ids, _, err := s.nodeRepo.LoadIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to load node directory: %w", err)
	}

	edges, err := s.relationRepo.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("failed to scan relations: %w", err)
	}

	return &models.MatrixResponse{
		N:      len(ids),
		IDs:    ids,
		Matrix: tensor.RelationMatrix(edges, ids, fillValue),
	}, nil
}
