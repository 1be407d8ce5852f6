package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yoquet/backend/internal/domain/shared"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseEntity
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Name        string          `gorm:"type:varchar(550);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Featured    bool            `gorm:"not null;default:false"`
	// ImageRef is the raw stored image reference. It may be a bare
	// filename, a legacy local path or a full URL; readers must pass it
	// through media.Resolver before serialization.
	ImageRef string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in the given category
func NewProduct(categoryID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
		Price:      price,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// SetPrice sets the product price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// SetStock sets the available stock count
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	p.CategoryID = categoryID
	p.Category = nil
	p.UpdatedAt = time.Now()
	return nil
}

// SetImageRef stores a raw image reference without normalizing it
func (p *Product) SetImageRef(ref string) {
	p.ImageRef = strings.TrimSpace(ref)
	p.UpdatedAt = time.Now()
}

// IsPending reports whether the product still awaits pricing.
// Scanned products enter the catalog with a zero price and are
// completed later through the batch-edit queue.
func (p *Product) IsPending() bool {
	return p.Price.IsZero()
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 550 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 550 characters")
	}
	return nil
}
