package service

import (
	"errors"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ImportBatchSize bounds a single insert during bulk import.
const ImportBatchSize = 100

// ProductUpdate carries the fields a PUT may change; nil fields are left as stored.
type ProductUpdate struct {
	Name                *string
	Description         *string
	Price               *float64
	Stock               *int
	ImageURL            *string
	Discount            *float64
	Offer               *string
	Category            *string
	Brand               *string
	CompatibleBikes     []string
	IsFeatured          *bool
	WarrantyPeriod      *string
	ManufacturerDetails *string
}

type ProductService interface {
	ListProducts() ([]model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(id string, update ProductUpdate) (*model.Product, error)
	DeleteProduct(id string) (*model.Product, error)
	ImportProducts(products []model.Product) (int, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) UpdateProduct(id string, update ProductUpdate) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(product, update)

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func applyProductUpdate(product *model.Product, update ProductUpdate) {
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.Discount != nil {
		product.Discount = *update.Discount
	}
	if update.Offer != nil {
		product.Offer = update.Offer
	}
	if update.Category != nil && *update.Category != "" {
		product.Category = *update.Category
	}
	if update.Brand != nil {
		product.Brand = *update.Brand
	}
	if update.CompatibleBikes != nil {
		product.CompatibleBikes = update.CompatibleBikes
	}
	if update.IsFeatured != nil {
		product.IsFeatured = *update.IsFeatured
	}
	if update.WarrantyPeriod != nil {
		product.WarrantyPeriod = *update.WarrantyPeriod
	}
	if update.ManufacturerDetails != nil {
		product.ManufacturerDetails = *update.ManufacturerDetails
	}
}

func (s *productService) DeleteProduct(id string) (*model.Product, error) {
	product, err := s.productRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

// ImportProducts inserts products in batches of ImportBatchSize.
func (s *productService) ImportProducts(products []model.Product) (int, error) {
	logger.Info("Importing products", map[string]interface{}{
		"count": len(products),
	})

	if err := s.productRepo.CreateBatch(products, ImportBatchSize); err != nil {
		logger.Error("Failed to import products", err)
		return 0, err
	}
	return len(products), nil
}
