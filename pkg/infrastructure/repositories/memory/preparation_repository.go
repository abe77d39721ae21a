package memory

import (
	"fmt"

	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/domain/repositories"
)

// PreparationRepository provides in-memory preparation storage with a
// secondary index by source product
type PreparationRepository struct {
	preparations    []entities.Preparation
	preparationsMap map[entities.PreparationID]int
	bySource        map[entities.ProductID][]int
}

// NewPreparationRepository creates a new in-memory preparation repository
func NewPreparationRepository(expectedPreparations int) *PreparationRepository {
	return &PreparationRepository{
		preparations:    make([]entities.Preparation, 0, expectedPreparations),
		preparationsMap: make(map[entities.PreparationID]int, expectedPreparations),
		bySource:        make(map[entities.ProductID][]int),
	}
}

// Verify interface compliance
var _ repositories.PreparationRepository = (*PreparationRepository)(nil)

// LoadPreparations loads preparations in order; a repeated id is rejected
func (r *PreparationRepository) LoadPreparations(preparations []*entities.Preparation) error {
	for _, prep := range preparations {
		if err := r.AddPreparation(*prep); err != nil {
			return err
		}
	}
	return nil
}

// AddPreparation appends a preparation to the repository
func (r *PreparationRepository) AddPreparation(prep entities.Preparation) error {
	if _, exists := r.preparationsMap[prep.ID]; exists {
		return fmt.Errorf("duplicate preparation id: %s", prep.ID)
	}
	index := len(r.preparations)
	r.preparationsMap[prep.ID] = index
	r.bySource[prep.SourceProductID] = append(r.bySource[prep.SourceProductID], index)
	r.preparations = append(r.preparations, prep)
	return nil
}

// GetPreparation returns the preparation with the given id
func (r *PreparationRepository) GetPreparation(id entities.PreparationID) (*entities.Preparation, error) {
	index, exists := r.preparationsMap[id]
	if !exists {
		return nil, fmt.Errorf("preparation not found: %s", id)
	}
	prep := r.preparations[index]
	return &prep, nil
}

// GetPreparationsBySource returns the preparations cut from productID, in load order
func (r *PreparationRepository) GetPreparationsBySource(productID entities.ProductID) ([]*entities.Preparation, error) {
	indexes := r.bySource[productID]
	preparations := make([]*entities.Preparation, 0, len(indexes))
	for _, index := range indexes {
		prep := r.preparations[index]
		preparations = append(preparations, &prep)
	}
	return preparations, nil
}

// GetAllPreparations returns all preparations in load order
func (r *PreparationRepository) GetAllPreparations() ([]*entities.Preparation, error) {
	preparations := make([]*entities.Preparation, 0, len(r.preparations))
	for i := range r.preparations {
		prep := r.preparations[i]
		preparations = append(preparations, &prep)
	}
	return preparations, nil
}
