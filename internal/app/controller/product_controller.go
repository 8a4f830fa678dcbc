package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	apperrors "github.com/ikkim/motoparts-backend/internal/errors"
	"github.com/ikkim/motoparts-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// CreateProduct adds a product to the catalog
// POST /products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product := req.toModel()
	if err := ctrl.productService.CreateProduct(product); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetAllProducts lists the catalog
// GET /products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	products, err := ctrl.productService.ListProducts()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list products", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns one product
// GET /products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err, id, "get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct changes the fields present in the body
// PUT /products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := c.Param("id")
	product, err := ctrl.productService.UpdateProduct(id, req.toUpdate())
	if err != nil {
		ctrl.respondProductError(c, err, id, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and returns the removed record
// DELETE /products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := ctrl.productService.DeleteProduct(id)
	if err != nil {
		ctrl.respondProductError(c, err, id, "delete product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error, id, operation string) {
	if errors.Is(err, service.ErrProductNotFound) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Product operation failed", err, map[string]interface{}{
		"product_id": id,
		"operation":  operation,
	})
	apperrors.ParseAndRespond(c, err, operation)
}
