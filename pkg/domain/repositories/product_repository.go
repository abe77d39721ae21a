package repositories

import "github.com/vsinha/prepplan/pkg/domain/entities"

// ProductRepository provides access to raw products and their current stock
type ProductRepository interface {
	GetProduct(id entities.ProductID) (*entities.RawProduct, error)
	GetAllProducts() ([]*entities.RawProduct, error)
	LoadProducts(products []*entities.RawProduct) error
}
