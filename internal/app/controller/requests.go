package controller

import (
	"fmt"
	"strings"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	"github.com/ikkim/motoparts-backend/pkg/util"
)

// checkPasswordBytes adds a field error when password exceeds what bcrypt
// can hash. The max tag counts runes, so multibyte input can slip past it.
func checkPasswordBytes(fields map[string]string, field, password string) map[string]string {
	if len(password) <= util.MaxPasswordBytes {
		return fields
	}
	if fields == nil {
		fields = make(map[string]string)
	}
	if _, exists := fields[field]; !exists {
		fields[field] = fmt.Sprintf("must be at most %d bytes", util.MaxPasswordBytes)
	}
	return fields
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
}

func (r *RegisterRequest) Validate() map[string]string {
	return checkPasswordBytes(validateStruct(r), "password", r.Password)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() map[string]string {
	return validateStruct(r)
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate() map[string]string {
	return validateStruct(r)
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

func (r *ResetPasswordRequest) Validate() map[string]string {
	return checkPasswordBytes(validateStruct(r), "newPassword", r.NewPassword)
}

// UpdateUserRequest has no email or name: both are fixed once registered and
// are ignored when sent.
type UpdateUserRequest struct {
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateUserRequest) Validate() map[string]string {
	fields := validateStruct(r)
	if r.Password != nil {
		fields = checkPasswordBytes(fields, "password", *r.Password)
	}
	return fields
}

func (r *UpdateUserRequest) toInput() service.UpdateUserInput {
	return service.UpdateUserInput{
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
	}
}

type CreateProductRequest struct {
	Name                string   `json:"name" validate:"required,max=200"`
	Description         string   `json:"description" validate:"required"`
	Price               *float64 `json:"price" validate:"required,gte=0"`
	Stock               int      `json:"stock" validate:"gte=0"`
	ImageURL            string   `json:"image_url" validate:"omitempty,url"`
	Discount            float64  `json:"discount" validate:"gte=0,lte=100"`
	Offer               *string  `json:"offer"`
	Category            string   `json:"category" validate:"omitempty,max=50"`
	Brand               string   `json:"brand" validate:"omitempty,max=100"`
	CompatibleBikes     []string `json:"compatible_bikes"`
	IsFeatured          bool     `json:"is_featured"`
	WarrantyPeriod      string   `json:"warranty_period"`
	ManufacturerDetails string   `json:"manufacturer_details"`
}

func (r *CreateProductRequest) Validate() map[string]string {
	return validateStruct(r)
}

func (r *CreateProductRequest) toModel() *model.Product {
	product := &model.Product{
		Name:                r.Name,
		Description:         r.Description,
		Stock:               r.Stock,
		ImageURL:            r.ImageURL,
		Discount:            r.Discount,
		Offer:               r.Offer,
		Category:            r.Category,
		Brand:               r.Brand,
		CompatibleBikes:     r.CompatibleBikes,
		IsFeatured:          r.IsFeatured,
		WarrantyPeriod:      r.WarrantyPeriod,
		ManufacturerDetails: r.ManufacturerDetails,
	}
	if r.Price != nil {
		product.Price = *r.Price
	}
	return product
}

type UpdateProductRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string  `json:"description" validate:"omitempty,min=1"`
	Price               *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock               *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL            *string  `json:"image_url" validate:"omitempty,url"`
	Discount            *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Offer               *string  `json:"offer"`
	Category            *string  `json:"category" validate:"omitempty,max=50"`
	Brand               *string  `json:"brand" validate:"omitempty,max=100"`
	CompatibleBikes     []string `json:"compatible_bikes"`
	IsFeatured          *bool    `json:"is_featured"`
	WarrantyPeriod      *string  `json:"warranty_period"`
	ManufacturerDetails *string  `json:"manufacturer_details"`
}

func (r *UpdateProductRequest) Validate() map[string]string {
	fields := validateStruct(r)
	// omitempty skips a present-but-blank string, so check those directly
	for name, value := range map[string]*string{"name": r.Name, "description": r.Description} {
		if value != nil && strings.TrimSpace(*value) == "" {
			if fields == nil {
				fields = map[string]string{}
			}
			fields[name] = "must not be empty"
		}
	}
	return fields
}

func (r *UpdateProductRequest) toUpdate() service.ProductUpdate {
	return service.ProductUpdate{
		Name:                r.Name,
		Description:         r.Description,
		Price:               r.Price,
		Stock:               r.Stock,
		ImageURL:            r.ImageURL,
		Discount:            r.Discount,
		Offer:               r.Offer,
		Category:            r.Category,
		Brand:               r.Brand,
		CompatibleBikes:     r.CompatibleBikes,
		IsFeatured:          r.IsFeatured,
		WarrantyPeriod:      r.WarrantyPeriod,
		ManufacturerDetails: r.ManufacturerDetails,
	}
}

type PresignProductImageRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

func (r *PresignProductImageRequest) Validate() map[string]string {
	return validateStruct(r)
}
