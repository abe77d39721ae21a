package repositories

import "github.com/vsinha/prepplan/pkg/domain/entities"

// PreparationRepository provides access to preparation definitions
type PreparationRepository interface {
	GetPreparation(id entities.PreparationID) (*entities.Preparation, error)
	GetPreparationsBySource(productID entities.ProductID) ([]*entities.Preparation, error)
	GetAllPreparations() ([]*entities.Preparation, error)
	LoadPreparations(preparations []*entities.Preparation) error
}
