package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProductCategory is applied when a product is created without a category.
const DefaultProductCategory = "generic"

// Product is a spare part in the catalog.
type Product struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	Price               float64   `gorm:"not null" json:"price"`
	Stock               int       `gorm:"default:0" json:"stock"`
	ImageURL            string    `json:"image_url"`
	Discount            float64   `gorm:"default:0" json:"discount"` // percent
	Offer               *string   `json:"offer"`                     // e.g. "Buy 1 Get 1 Free"
	AddedOn             time.Time `json:"added_on"`
	Category            string    `gorm:"type:varchar(50);default:'generic';index" json:"category"` // engine, brakes, wheels...
	Brand               string    `gorm:"index" json:"brand"`
	CompatibleBikes     []string  `gorm:"serializer:json" json:"compatible_bikes"`
	IsFeatured          bool      `gorm:"default:false" json:"is_featured"`
	WarrantyPeriod      string    `json:"warranty_period"`
	ManufacturerDetails string    `gorm:"type:text" json:"manufacturer_details"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.AddedOn.IsZero() {
		p.AddedOn = time.Now()
	}
	if p.Category == "" {
		p.Category = DefaultProductCategory
	}
	return nil
}
