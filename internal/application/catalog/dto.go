package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/media"
)

// CategoryDTO is the API representation of a category
type CategoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	SortOrder   int       `json:"orden"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDTO is the API representation of a product. Imagen always
// carries the resolved delivery URL, never the raw stored reference.
type ProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion,omitempty"`
	Price        decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	Featured     bool            `json:"destacado"`
	ImageURL     string          `json:"imagen,omitempty"`
	CategoryID   string          `json:"categoria_id"`
	CategoryName string          `json:"categoria,omitempty"`
	Pending      bool            `json:"pendiente"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateCategoryRequest is the request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"nombre" binding:"required,max=100"`
	Description string `json:"descripcion"`
	SortOrder   int    `json:"orden"`
}

// UpdateCategoryRequest is the request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"nombre" binding:"required,max=100"`
	Description string `json:"descripcion"`
	SortOrder   *int   `json:"orden"`
}

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Name        string          `json:"nombre" binding:"required,max=550"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"destacado"`
	ImageRef    string          `json:"imagen"`
	CategoryID  string          `json:"categoria_id" binding:"required,uuid"`
}

// UpdateProductRequest is the request to update a product
type UpdateProductRequest struct {
	Name        string           `json:"nombre" binding:"required,max=550"`
	Description string           `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"destacado"`
	ImageRef    *string          `json:"imagen"`
	CategoryID  string           `json:"categoria_id" binding:"omitempty,uuid"`
}

// BatchUpdateItem is one entry in a partial batch update. Absent
// fields keep their current values.
type BatchUpdateItem struct {
	ProductID  string           `json:"id" binding:"required,uuid"`
	Price      *decimal.Decimal `json:"precio"`
	Stock      *int             `json:"stock"`
	CategoryID string           `json:"categoria_id" binding:"omitempty,uuid"`
}

// BatchUpdateRequest updates pending products in bulk
type BatchUpdateRequest struct {
	Items []BatchUpdateItem `json:"items" binding:"required,min=1,dive"`
}

// BatchUpdateResult reports the outcome of a batch update
type BatchUpdateResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// toCategoryDTO converts a category entity to its DTO
func toCategoryDTO(c *catalog.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
	}
}

// toProductDTO converts a product entity to its DTO, resolving the
// stored image reference to a delivery URL
func toProductDTO(p *catalog.Product, resolver *media.Resolver) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Featured:    p.Featured,
		CategoryID:  p.CategoryID.String(),
		Pending:     p.IsPending(),
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	if url, ok := resolver.Resolve(p.ImageRef); ok {
		dto.ImageURL = url
	}
	return dto
}
