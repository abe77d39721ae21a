package memory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/domain/repositories"
)

// ProductRepository provides in-memory raw product storage
type ProductRepository struct {
	products    []entities.RawProduct
	productsMap map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.RawProduct, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products in order; a repeated id is rejected
func (r *ProductRepository) LoadProducts(products []*entities.RawProduct) error {
	for _, product := range products {
		if err := r.AddProduct(*product); err != nil {
			return err
		}
	}
	return nil
}

// AddProduct appends a product to the repository
func (r *ProductRepository) AddProduct(product entities.RawProduct) error {
	if _, exists := r.productsMap[product.ID]; exists {
		return fmt.Errorf("duplicate product id: %s", product.ID)
	}
	r.productsMap[product.ID] = len(r.products)
	r.products = append(r.products, product)
	return nil
}

// GetProduct returns the product with the given id
func (r *ProductRepository) GetProduct(id entities.ProductID) (*entities.RawProduct, error) {
	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	product := r.products[index]
	return &product, nil
}

// GetAllProducts returns all products in load order
func (r *ProductRepository) GetAllProducts() ([]*entities.RawProduct, error) {
	products := make([]*entities.RawProduct, 0, len(r.products))
	for i := range r.products {
		product := r.products[i]
		products = append(products, &product)
	}
	return products, nil
}

// SetAvailableQuantity records a new stock level, as a stock count would
func (r *ProductRepository) SetAvailableQuantity(id entities.ProductID, available decimal.Decimal) error {
	index, exists := r.productsMap[id]
	if !exists {
		return fmt.Errorf("product not found: %s", id)
	}
	r.products[index].AvailableQuantity = available
	return nil
}
